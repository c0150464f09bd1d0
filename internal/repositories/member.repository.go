package repositories

import (
	"context"

	contextutil "freshnest/internal/context"
	"freshnest/internal/database"
	. "freshnest/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemberRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Member, error)
	GetByEmail(ctx context.Context, email string) (*Member, error)
	Create(ctx context.Context, member *Member) (*Member, error)
	Update(ctx context.Context, member *Member) error
	UpdateTier(ctx context.Context, id uuid.UUID, tier MemberTier) error
}

type memberRepository struct {
	db  database.DB
	log logger.Logger
}

func NewMemberRepository(db database.DB) MemberRepository {
	return &memberRepository{
		db:  db,
		log: logger.New("memberRepository"),
	}
}

func (r *memberRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *memberRepository) GetByID(ctx context.Context, id uuid.UUID) (*Member, error) {
	log := r.log.Function("GetByID")

	var member Member
	if err := r.getDB(ctx).First(&member, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err("failed to get member by ID", err, "id", id)
	}

	return &member, nil
}

func (r *memberRepository) GetByEmail(ctx context.Context, email string) (*Member, error) {
	log := r.log.Function("GetByEmail")

	var member Member
	if err := r.getDB(ctx).First(&member, "email = ?", email).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err("failed to get member by email", err, "email", email)
	}

	return &member, nil
}

func (r *memberRepository) Create(ctx context.Context, member *Member) (*Member, error) {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(member).Error; err != nil {
		return nil, log.Err("failed to create member", err, "email", member.Email)
	}

	return member, nil
}

func (r *memberRepository) Update(ctx context.Context, member *Member) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(member).Error; err != nil {
		return log.Err("failed to update member", err, "id", member.ID)
	}

	return nil
}

func (r *memberRepository) UpdateTier(ctx context.Context, id uuid.UUID, tier MemberTier) error {
	log := r.log.Function("UpdateTier")

	result := r.getDB(ctx).Model(&Member{}).Where("id = ?", id).Update("tier", tier)
	if result.Error != nil {
		return log.Err("failed to update member tier", result.Error, "id", id, "tier", tier)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
