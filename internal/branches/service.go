package branches

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"theaterbook/internal/shared/constants"
	"theaterbook/pkg/cache"
	"theaterbook/pkg/logger"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

var ErrInvalidBranchID = errors.New("invalid branch id")

type Service interface {
	Create(ctx context.Context, req CreateBranchRequest) (*Branch, error)
	Get(ctx context.Context, id string) (*Branch, error)
	List(ctx context.Context) ([]Branch, error)
	Update(ctx context.Context, id string, req UpdateBranchRequest) (*Branch, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo  Repository
	cache cache.Service
	log   *logger.Logger
}

func NewService(repo Repository, c cache.Service) Service {
	return &service{repo: repo, cache: c, log: logger.GetDefault()}
}

// BranchCode derives a code from the branch name when none was given.
func BranchCode(name, code string) string {
	if c := strings.TrimSpace(code); c != "" {
		return slug.Make(c)
	}
	return slug.Make(name)
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrInvalidBranchID, id)
	}
	return parsed, nil
}

func (s *service) invalidate(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, constants.CACHE_PATTERN_BRANCHES); err != nil {
		s.log.WarnContext(ctx, "failed to invalidate branch cache", slog.Any("error", err))
	}
}

func (s *service) Create(ctx context.Context, req CreateBranchRequest) (*Branch, error) {
	branch := &Branch{
		BranchName: strings.TrimSpace(req.BranchName),
		Code:       BranchCode(req.BranchName, req.Code),
		Location:   strings.TrimSpace(req.Location),
		Number:     req.Number,
	}

	exists, err := s.repo.ExistsByNameOrCode(ctx, branch.BranchName, branch.Code, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check branch: %w", err)
	}
	if exists {
		return nil, ErrBranchExists
	}

	if err := s.repo.Create(ctx, branch); err != nil {
		return nil, fmt.Errorf("failed to create branch: %w", err)
	}
	s.invalidate(ctx)
	return branch, nil
}

func (s *service) Get(ctx context.Context, id string) (*Branch, error) {
	branchID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var branch Branch
	err = s.cache.GetOrSet(ctx, constants.BuildBranchDetailKey(id), constants.TTL_BRANCH_DETAIL, func() (interface{}, error) {
		return s.repo.FindByID(ctx, branchID)
	}, &branch)
	if err != nil {
		return nil, err
	}
	return &branch, nil
}

func (s *service) List(ctx context.Context) ([]Branch, error) {
	var list []Branch
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_BRANCHES_ALL, constants.TTL_BRANCH_LIST, func() (interface{}, error) {
		return s.repo.List(ctx)
	}, &list)
	return list, err
}

func (s *service) Update(ctx context.Context, id string, req UpdateBranchRequest) (*Branch, error) {
	branchID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	branch, err := s.repo.FindByID(ctx, branchID)
	if err != nil {
		return nil, err
	}

	if req.BranchName != nil {
		branch.BranchName = strings.TrimSpace(*req.BranchName)
	}
	if req.Code != nil {
		branch.Code = BranchCode(branch.BranchName, *req.Code)
	}
	if req.Location != nil {
		branch.Location = strings.TrimSpace(*req.Location)
	}
	if req.Number != nil {
		branch.Number = *req.Number
	}

	exists, err := s.repo.ExistsByNameOrCode(ctx, branch.BranchName, branch.Code, branch.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check branch: %w", err)
	}
	if exists {
		return nil, ErrBranchExists
	}

	if err := s.repo.Update(ctx, branch); err != nil {
		return nil, fmt.Errorf("failed to update branch: %w", err)
	}
	s.invalidate(ctx)
	return branch, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	branchID, err := parseID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, branchID); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}
