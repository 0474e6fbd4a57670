// Package usecase は銘柄グループの管理を実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/Yili-code/FinMind-Lab/internal/feature/stockgroup/domain/entity"
	"github.com/Yili-code/FinMind-Lab/internal/shared/apperr"
)

// MaxNameLength はグループ名の最大文字数です。
const MaxNameLength = 100

// GroupRepository は stock_groups と stock_group_members の読み書きを抽象化します。
// 存在しないグループには apperr.ErrNotFound、名前の重複には apperr.ErrConflict を返します。
type GroupRepository interface {
	Create(ctx context.Context, name string, description *string) (*entity.Group, error)
	List(ctx context.Context) ([]entity.Group, error)
	Get(ctx context.Context, id string) (*entity.Group, error)
	Update(ctx context.Context, id string, name, description *string) (*entity.Group, error)
	Delete(ctx context.Context, id string) error
	// AddStock は既に所属している場合も成功として扱います。
	AddStock(ctx context.Context, groupID, stockCode string) error
	RemoveStock(ctx context.Context, groupID, stockCode string) error
	Stocks(ctx context.Context, groupID string) ([]string, error)
	GroupsByStock(ctx context.Context, stockCode string) ([]entity.GroupRef, error)
	StocksWithGroups(ctx context.Context) ([]entity.StockGroups, error)
}

type groupUsecase struct {
	repo GroupRepository
}

// NewGroupUsecase は groupUsecase を生成します。
func NewGroupUsecase(repo GroupRepository) *groupUsecase {
	return &groupUsecase{repo: repo}
}

func (u *groupUsecase) Create(ctx context.Context, name string, description *string) (*entity.Group, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	g, err := u.repo.Create(ctx, name, description)
	if err != nil {
		return nil, err
	}
	slog.Info("stock group created", "id", g.ID, "name", g.Name)
	return g, nil
}

func (u *groupUsecase) List(ctx context.Context) ([]entity.Group, error) {
	return u.repo.List(ctx)
}

func (u *groupUsecase) Get(ctx context.Context, id string) (*entity.Group, error) {
	return u.repo.Get(ctx, id)
}

// Update は指定された項目だけを更新します。どちらも nil の場合はエラーです。
func (u *groupUsecase) Update(ctx context.Context, id string, name, description *string) (*entity.Group, error) {
	if name == nil && description == nil {
		return nil, fmt.Errorf("%w: nothing to update", apperr.ErrValidation)
	}
	if name != nil {
		n, err := normalizeName(*name)
		if err != nil {
			return nil, err
		}
		name = &n
	}
	return u.repo.Update(ctx, id, name, description)
}

func (u *groupUsecase) Delete(ctx context.Context, id string) error {
	if err := u.repo.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("stock group deleted", "id", id)
	return nil
}

func (u *groupUsecase) AddStock(ctx context.Context, groupID, stockCode string) error {
	return u.repo.AddStock(ctx, groupID, stockCode)
}

func (u *groupUsecase) RemoveStock(ctx context.Context, groupID, stockCode string) error {
	return u.repo.RemoveStock(ctx, groupID, stockCode)
}

func (u *groupUsecase) Stocks(ctx context.Context, groupID string) ([]string, error) {
	return u.repo.Stocks(ctx, groupID)
}

func (u *groupUsecase) GroupsByStock(ctx context.Context, stockCode string) ([]entity.GroupRef, error) {
	return u.repo.GroupsByStock(ctx, stockCode)
}

func (u *groupUsecase) StocksWithGroups(ctx context.Context) ([]entity.StockGroups, error) {
	return u.repo.StocksWithGroups(ctx)
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: group name must not be empty", apperr.ErrValidation)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", fmt.Errorf("%w: group name must be at most %d characters", apperr.ErrValidation, MaxNameLength)
	}
	return name, nil
}
