package implementation

import (
	"context"
	"errors"

	"ai-storyboard-be/internal/entity"
	"ai-storyboard-be/internal/mapper"
	"ai-storyboard-be/internal/model"
	"ai-storyboard-be/internal/repository/contract"
	"ai-storyboard-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SceneRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SceneMapper
}

func NewSceneRepository(db *gorm.DB) contract.SceneRepository {
	return &SceneRepositoryImpl{
		db:     db,
		mapper: mapper.NewSceneMapper(),
	}
}

func (r *SceneRepositoryImpl) Create(ctx context.Context, scene *entity.Scene) error {
	m := r.mapper.ToModel(scene)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*scene = *r.mapper.ToEntity(m)
	return nil
}

func (r *SceneRepositoryImpl) Update(ctx context.Context, scene *entity.Scene) error {
	m := r.mapper.ToModel(scene)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*scene = *r.mapper.ToEntity(m)
	return nil
}

func (r *SceneRepositoryImpl) DeleteByConversationId(ctx context.Context, conversationId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("conversation_id = ?", conversationId).Delete(&model.StoryboardScene{}).Error
}

func (r *SceneRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Scene, error) {
	var m model.StoryboardScene
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SceneRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Scene, error) {
	var models []model.StoryboardScene
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	scenes := make([]*entity.Scene, 0, len(models))
	for i := range models {
		scenes = append(scenes, r.mapper.ToEntity(&models[i]))
	}
	return scenes, nil
}
