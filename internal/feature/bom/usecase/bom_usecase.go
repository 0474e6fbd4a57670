// Package usecase は銘柄BOMの登録とツリー展開を実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Yili-code/FinMind-Lab/internal/feature/bom/domain/entity"
	"github.com/Yili-code/FinMind-Lab/internal/shared/apperr"
)

const (
	DefaultMaxDepth = 3
	MaxTreeDepth    = 10
)

// BOMRepository は stock_bom と stock_basics の参照を抽象化します。
type BOMRepository interface {
	// StockName は stock_basics の銘柄名を返します。行がない場合は ok=false です。
	StockName(ctx context.Context, stockCode string) (name string, ok bool, err error)
	// Children は親銘柄の直接の子を子コードの昇順で返します。
	Children(ctx context.Context, parent string) ([]entity.Edge, error)
	// Parents は子銘柄を含む親を親コードの昇順で返します。
	Parents(ctx context.Context, child string) ([]entity.Edge, error)
	// Upsert は (parent, child) が既にあれば上書きします。
	Upsert(ctx context.Context, e entity.Edge) (*entity.Edge, error)
	// Update と Delete は対象がない場合に apperr.ErrNotFound を返します。
	Update(ctx context.Context, parent, child string, p entity.EdgePatch) (*entity.Edge, error)
	Delete(ctx context.Context, parent, child string) error
}

type bomUsecase struct {
	repo BOMRepository
}

// NewBOMUsecase は bomUsecase を生成します。
func NewBOMUsecase(repo BOMRepository) *bomUsecase {
	return &bomUsecase{repo: repo}
}

// Add は親に子を追加します。両方の銘柄が stock_basics に存在する必要があります。
func (u *bomUsecase) Add(ctx context.Context, e entity.Edge) (*entity.Edge, error) {
	if e.ParentStockCode == e.ChildStockCode {
		return nil, fmt.Errorf("%w: a stock cannot contain itself", apperr.ErrValidation)
	}
	if e.Quantity == 0 {
		e.Quantity = 1
	}
	if e.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", apperr.ErrValidation)
	}
	for _, code := range []string{e.ParentStockCode, e.ChildStockCode} {
		if err := u.mustExist(ctx, code); err != nil {
			return nil, err
		}
	}

	out, err := u.repo.Upsert(ctx, e)
	if err != nil {
		return nil, err
	}
	slog.Info("bom edge saved", "parent", e.ParentStockCode, "child", e.ChildStockCode)
	return out, nil
}

func (u *bomUsecase) Children(ctx context.Context, parent string) ([]entity.Edge, error) {
	return u.repo.Children(ctx, parent)
}

func (u *bomUsecase) Parents(ctx context.Context, child string) ([]entity.Edge, error) {
	return u.repo.Parents(ctx, child)
}

func (u *bomUsecase) Update(ctx context.Context, parent, child string, p entity.EdgePatch) (*entity.Edge, error) {
	if p.Empty() {
		return nil, fmt.Errorf("%w: nothing to update", apperr.ErrValidation)
	}
	if p.Quantity != nil && *p.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", apperr.ErrValidation)
	}
	return u.repo.Update(ctx, parent, child, p)
}

func (u *bomUsecase) Delete(ctx context.Context, parent, child string) error {
	return u.repo.Delete(ctx, parent, child)
}

// BuildTree は root から maxDepth 段までの構成ツリーを返します。
// 深さ k の子は k < maxDepth かつ stock_basics に存在する場合に展開します。
// 現在の経路上にある銘柄が再び現れた場合は Cycle を立てて展開しません。
func (u *bomUsecase) BuildTree(ctx context.Context, root string, maxDepth int) (*entity.Tree, error) {
	if maxDepth < 1 || maxDepth > MaxTreeDepth {
		return nil, fmt.Errorf("%w: max_depth must be between 1 and %d", apperr.ErrValidation, MaxTreeDepth)
	}
	name, ok, err := u.repo.StockName(ctx, root)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: stock %s is not registered", apperr.ErrNotFound, root)
	}

	path := map[string]bool{root: true}
	children, err := u.expand(ctx, root, 1, maxDepth, path)
	if err != nil {
		return nil, err
	}
	return &entity.Tree{StockCode: root, StockName: name, MaxDepth: maxDepth, Children: children}, nil
}

// expand は parent の子を深さ depth のノードとして返します。path は現在の経路上の銘柄です。
func (u *bomUsecase) expand(ctx context.Context, parent string, depth, maxDepth int, path map[string]bool) ([]entity.TreeNode, error) {
	edges, err := u.repo.Children(ctx, parent)
	if err != nil {
		return nil, err
	}

	nodes := make([]entity.TreeNode, 0, len(edges))
	for _, e := range edges {
		n := entity.TreeNode{Edge: e, Depth: depth, Children: []entity.TreeNode{}}
		code := e.ChildStockCode
		switch {
		case path[code]:
			n.Cycle = true
		case depth < maxDepth:
			_, ok, err := u.repo.StockName(ctx, code)
			if err != nil {
				return nil, err
			}
			if ok {
				path[code] = true
				n.Children, err = u.expand(ctx, code, depth+1, maxDepth, path)
				delete(path, code)
				if err != nil {
					return nil, err
				}
			}
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func (u *bomUsecase) mustExist(ctx context.Context, code string) error {
	_, ok, err := u.repo.StockName(ctx, code)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: stock %s is not registered", apperr.ErrNotFound, code)
	}
	return nil
}
