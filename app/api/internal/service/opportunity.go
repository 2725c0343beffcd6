package service

import (
	"context"
	stderrors "errors"
	nethttp "net/http"
	"net/url"
	"strconv"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/iWorld-y/pain_radar/app/api/internal/repo"
	"github.com/iWorld-y/pain_radar/app/api/internal/usecase"
)

const (
	OperationOpportunityRoot   = "/painradar.api.v1.Opportunity/Root"
	OperationOpportunityHealth = "/painradar.api.v1.Opportunity/Health"
	OperationOpportunityList   = "/painradar.api.v1.Opportunity/ListOpportunities"
	OperationOpportunityDetail = "/painradar.api.v1.Opportunity/GetOpportunity"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100

	welcomeMessage = "Welcome to TonDianLeiDar API!"
)

var (
	errServiceUnavailable = errors.ServiceUnavailable("DATABASE_UNAVAILABLE", "Service temporarily unavailable.")
	errInternal           = errors.InternalServer("INTERNAL_ERROR", "Internal Server Error")
	errNotFound           = errors.NotFound("OPPORTUNITY_NOT_FOUND", "Opportunity not found")
)

// RootReply 欢迎页响应
type RootReply struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HealthReply 健康检查响应
type HealthReply struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// OpportunityService 对外提供机会报告的 HTTP 接口
type OpportunityService struct {
	uc  *usecase.OpportunityUseCase
	log *log.Helper
}

func NewOpportunityService(uc *usecase.OpportunityUseCase, logger log.Logger) *OpportunityService {
	return &OpportunityService{
		uc:  uc,
		log: log.NewHelper(log.With(logger, "module", "service/opportunity")),
	}
}

// RegisterOpportunityHTTPServer 注册路由
func RegisterOpportunityHTTPServer(s *http.Server, srv *OpportunityService) {
	r := s.Route("/")
	r.GET("/", srv.Root)
	r.GET("/health", srv.Health)
	r.GET("/api/opportunities", srv.ListOpportunities)
	r.GET("/api/opportunities/{id}", srv.GetOpportunity)
}

func (s *OpportunityService) Root(ctx http.Context) error {
	http.SetOperation(ctx, OperationOpportunityRoot)
	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		return &RootReply{Status: "ok", Message: welcomeMessage}, nil
	})
	out, err := h(ctx, nil)
	if err != nil {
		return err
	}
	return ctx.Result(nethttp.StatusOK, out)
}

// Health 检查数据库连通性，失败时返回 503，且不暴露具体原因
func (s *OpportunityService) Health(ctx http.Context) error {
	http.SetOperation(ctx, OperationOpportunityHealth)
	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		if !s.uc.CheckConnectivity(ctx) {
			return nil, errServiceUnavailable
		}
		return &HealthReply{Status: "ok", Database: "connected"}, nil
	})
	out, err := h(ctx, nil)
	if err != nil {
		if !stderrors.Is(err, errServiceUnavailable) {
			s.log.WithContext(ctx).Errorw(log.DefaultMessageKey, "Database health check failed", "error", err.Error())
		}
		return errServiceUnavailable
	}
	return ctx.Result(nethttp.StatusOK, out)
}

func (s *OpportunityService) ListOpportunities(ctx http.Context) error {
	query := ctx.Query()
	page, err := intQuery(query, "page", defaultPage, 1, 0)
	if err != nil {
		return err
	}
	pageSize, err := intQuery(query, "page_size", defaultPageSize, 1, maxPageSize)
	if err != nil {
		return err
	}

	http.SetOperation(ctx, OperationOpportunityList)
	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.uc.List(ctx, page, pageSize)
	})
	out, err := h(ctx, nil)
	if err != nil {
		return s.internalError(ctx, "Failed to list opportunities", err)
	}
	return ctx.Result(nethttp.StatusOK, out)
}

func (s *OpportunityService) GetOpportunity(ctx http.Context) error {
	id, err := strconv.Atoi(ctx.Vars().Get("id"))
	if err != nil {
		return validationError("opportunity_id must be an integer")
	}

	http.SetOperation(ctx, OperationOpportunityDetail)
	logger := s.log.WithContext(ctx)
	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.uc.GetDetail(ctx, id)
	})
	out, err := h(ctx, nil)
	if err != nil {
		if stderrors.Is(err, repo.ErrOpportunityNotFound) {
			logger.Warnw(log.DefaultMessageKey, "Opportunity not found", "opportunity_id", id)
			return errNotFound
		}
		return s.internalError(ctx, "Failed to get opportunity", err)
	}

	logger.Infow(log.DefaultMessageKey, "Opportunity detail retrieved successfully", "opportunity_id", id)
	return ctx.Result(nethttp.StatusOK, out)
}

// internalError 记录存储层错误，对外只返回通用的 500
func (s *OpportunityService) internalError(ctx context.Context, msg string, err error) error {
	var se *errors.Error
	if errors.As(err, &se) {
		return se
	}
	s.log.WithContext(ctx).Errorw(log.DefaultMessageKey, msg, "error", err.Error())
	return errInternal
}

func validationError(msg string) error {
	return errors.New(nethttp.StatusUnprocessableEntity, "VALIDATION_ERROR", msg)
}

// intQuery 解析整数查询参数；缺省时返回 def，hi <= 0 表示无上限
func intQuery(values url.Values, name string, def, lo, hi int) (int, error) {
	if !values.Has(name) {
		return def, nil
	}
	v, err := strconv.Atoi(values.Get(name))
	if err != nil {
		return 0, validationError(name + " must be an integer")
	}
	if v < lo {
		return 0, validationError(name + " must be greater than or equal to " + strconv.Itoa(lo))
	}
	if hi > 0 && v > hi {
		return 0, validationError(name + " must be less than or equal to " + strconv.Itoa(hi))
	}
	return v, nil
}
