package processor

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pepagora/internal/app/catalog/repository"
	"pepagora/pkg/logger"
)

// ChildrenReconciler периодически пересобирает mapped_children
// из фактических mapped_parent детей
// Массивы mapped_children не авторитетны (обновляются best-effort при записи),
// reconciler устраняет накопившийся дрейф
type ChildrenReconciler struct {
	cron            *cron.Cron
	categoryRepo    repository.CategoryRepository
	subcategoryRepo repository.SubcategoryRepository
	productRepo     repository.ProductRepository
}

func NewChildrenReconciler(
	categoryRepo repository.CategoryRepository,
	subcategoryRepo repository.SubcategoryRepository,
	productRepo repository.ProductRepository,
) *ChildrenReconciler {
	return &ChildrenReconciler{
		cron:            cron.New(),
		categoryRepo:    categoryRepo,
		subcategoryRepo: subcategoryRepo,
		productRepo:     productRepo,
	}
}

// Start запускает reconciliation по расписанию и выполняет первый проход сразу
func (r *ChildrenReconciler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("starting children reconciler")

	_, err := r.cron.AddFunc(schedule, func() {
		if err := r.Reconcile(ctx); err != nil {
			logger.Error().Err(err).Msg("children reconciliation failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reconciler: %w", err)
	}

	r.cron.Start()

	if err := r.Reconcile(ctx); err != nil {
		logger.Warn().Err(err).Msg("initial children reconciliation failed")
	}

	return nil
}

func (r *ChildrenReconciler) Stop() {
	logger.Info().Msg("stopping children reconciler")
	stopCtx := r.cron.Stop()
	<-stopCtx.Done()
}

// Reconcile пересобирает mapped_children для всех категорий и подкатегорий
func (r *ChildrenReconciler) Reconcile(ctx context.Context) error {
	if err := r.reconcileCategories(ctx); err != nil {
		return err
	}
	return r.reconcileSubcategories(ctx)
}

func (r *ChildrenReconciler) reconcileCategories(ctx context.Context) error {
	categoryIDs, err := r.categoryRepo.AllIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list category ids: %w", err)
	}

	for _, categoryID := range categoryIDs {
		children, err := r.subcategoryRepo.IDsByParents(ctx, []primitive.ObjectID{categoryID})
		if err != nil {
			return fmt.Errorf("failed to resolve subcategories of %s: %w", categoryID.Hex(), err)
		}
		if err := r.categoryRepo.ReplaceChildren(ctx, categoryID, children); err != nil {
			return fmt.Errorf("failed to replace children of %s: %w", categoryID.Hex(), err)
		}
	}

	logger.Debug().Int("categories", len(categoryIDs)).Msg("category children reconciled")
	return nil
}

func (r *ChildrenReconciler) reconcileSubcategories(ctx context.Context) error {
	subcategoryIDs, err := r.subcategoryRepo.AllIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list subcategory ids: %w", err)
	}

	for _, subcategoryID := range subcategoryIDs {
		children, err := r.productRepo.IDsByParent(ctx, subcategoryID)
		if err != nil {
			return fmt.Errorf("failed to resolve products of %s: %w", subcategoryID.Hex(), err)
		}
		if err := r.subcategoryRepo.ReplaceChildren(ctx, subcategoryID, children); err != nil {
			return fmt.Errorf("failed to replace children of %s: %w", subcategoryID.Hex(), err)
		}
	}

	logger.Debug().Int("subcategories", len(subcategoryIDs)).Msg("subcategory children reconciled")
	return nil
}
