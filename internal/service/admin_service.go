// Package service exposes the admin site over Connect RPC.
//
// Messages use the protobuf well-known types (structpb.Struct, emptypb.Empty),
// so the service is reachable with the Connect, gRPC and gRPC-Web protocols
// without generated stubs.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mmynk/together/internal/admin"
	"github.com/mmynk/together/internal/auth"
	"github.com/mmynk/together/internal/middleware"
)

const (
	// AdminServiceName is the fully-qualified name of the admin service.
	AdminServiceName = "together.admin.v1.AdminService"

	LoginProcedure       = "/" + AdminServiceName + "/Login"
	ListModelsProcedure  = "/" + AdminServiceName + "/ListModels"
	ListRecordsProcedure = "/" + AdminServiceName + "/ListRecords"
)

// AdminService implements the Connect AdminService.
type AdminService struct {
	site          *admin.Site
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAdminService creates a new AdminService over the given site.
func NewAdminService(site *admin.Site, authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AdminService {
	return &AdminService{
		site:          site,
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// NewAdminServiceHandler builds an HTTP handler serving every procedure of the
// service, and returns the path on which to mount it. Login is public; the
// other procedures require a bearer token.
func NewAdminServiceHandler(svc *AdminService, opts ...connect.HandlerOption) (string, http.Handler) {
	protected := append([]connect.HandlerOption{
		connect.WithInterceptors(middleware.RequireAuth(svc.jwtManager), middleware.LoggingInterceptor()),
	}, opts...)
	public := append([]connect.HandlerOption{
		connect.WithInterceptors(middleware.LoggingInterceptor()),
	}, opts...)

	mux := http.NewServeMux()
	mux.Handle(LoginProcedure, connect.NewUnaryHandler(LoginProcedure, svc.Login, public...))
	mux.Handle(ListModelsProcedure, connect.NewUnaryHandler(ListModelsProcedure, svc.ListModels, protected...))
	mux.Handle(ListRecordsProcedure, connect.NewUnaryHandler(ListRecordsProcedure, svc.ListRecords, protected...))

	return "/" + AdminServiceName + "/", mux
}

// ListModels describes the registered models and their columns.
func (s *AdminService) ListModels(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[structpb.Struct], error) {
	s.logger.Info("ListModels request received", "username", middleware.GetUsername(ctx))

	var models []interface{}
	for _, m := range s.site.Models() {
		models = append(models, map[string]interface{}{
			"name":    m.Name(),
			"slug":    m.Slug(),
			"columns": columnsValue(m.Columns()),
		})
	}

	resp, err := structpb.NewStruct(map[string]interface{}{"models": models})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(resp), nil
}

// ListRecords renders one changelist page. The request carries "model" (the
// slug) and an optional 1-based "page".
func (s *AdminService) ListRecords(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	fields := req.Msg.GetFields()
	slug := fields["model"].GetStringValue()
	page := 1
	if v, ok := fields["page"]; ok {
		n, err := pageNumber(v)
		if err != nil {
			s.logger.Warn("ListRecords rejected", "model", slug, "error", err)
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		page = n
	}

	s.logger.Info("ListRecords request received",
		"model", slug,
		"page", page,
		"username", middleware.GetUsername(ctx),
	)

	if slug == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("model required"))
	}

	cl, err := s.site.Changelist(ctx, slug, page)
	if err != nil {
		code := changelistCode(err)
		level := slog.LevelWarn
		if code == connect.CodeInternal {
			level = slog.LevelError
		}
		s.logger.Log(ctx, level, "ListRecords failed", "model", slug, "page", page, "error", err)
		return nil, connect.NewError(code, err)
	}

	rows := make([]interface{}, len(cl.Rows))
	for i, r := range cl.Rows {
		values := make([]interface{}, len(r.Values))
		for j, v := range r.Values {
			values[j] = v
		}
		rows[i] = map[string]interface{}{"pk": r.PK, "values": values}
	}

	resp, err := structpb.NewStruct(map[string]interface{}{
		"model":   cl.Model,
		"slug":    cl.Slug,
		"columns": columnsValue(cl.Columns),
		"rows":    rows,
		"page":    cl.Page,
		"pages":   cl.Pages,
		"total":   cl.Total,
	})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("ListRecords successful", "model", slug, "rows", len(rows), "total", cl.Total)
	return connect.NewResponse(resp), nil
}

func columnsValue(cols []admin.Column) []interface{} {
	out := make([]interface{}, len(cols))
	for i, c := range cols {
		out[i] = map[string]interface{}{"name": c.Name, "header": c.Header}
	}
	return out
}

// pageNumber reads a page field, which must be a whole number.
func pageNumber(v *structpb.Value) (int, error) {
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		sent, err := protojson.Marshal(v)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", admin.ErrInvalidPage, err)
		}
		return 0, fmt.Errorf("%w: %s", admin.ErrInvalidPage, sent)
	}
	f := n.NumberValue
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %v", admin.ErrInvalidPage, f)
	}
	return int(f), nil
}

// changelistCode maps admin errors to Connect codes.
func changelistCode(err error) connect.Code {
	switch {
	case errors.Is(err, admin.ErrNotRegistered):
		return connect.CodeNotFound
	case errors.Is(err, admin.ErrInvalidPage):
		return connect.CodeInvalidArgument
	default:
		return connect.CodeInternal
	}
}
