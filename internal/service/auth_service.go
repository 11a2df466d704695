package service

import (
	"context"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mmynk/together/internal/auth"
	"github.com/mmynk/together/internal/metrics"
)

// Login authenticates a staff user and returns a JWT token.
// The request carries "username" and "password".
func (s *AdminService) Login(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	fields := req.Msg.GetFields()
	username := fields["username"].GetStringValue()
	password := fields["password"].GetStringValue()

	s.logger.Info("Login request", "username", username)

	if username == "" || password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Authenticate(ctx, username, password)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("denied").Inc()
		s.logger.Warn("Login failed", "username", username, "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	resp, err := structpb.NewStruct(map[string]interface{}{
		"token":    token,
		"username": user.Username,
		"user_id":  user.ID,
	})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	metrics.LoginAttempts.WithLabelValues("ok").Inc()
	s.logger.Info("User logged in successfully", "user_id", user.ID, "username", user.Username)
	return connect.NewResponse(resp), nil
}
