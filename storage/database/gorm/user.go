package gormrepos

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/ajuagency/collegia/core/user"
)

type userRepository struct {
	db *gorm.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db: db}
}

// trapNotFoundErr maps gorm's "record not found" err to user.ErrNotFound
func (repo userRepository) trapNotFoundErr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...user.User) error {
	q := repo.db.WithContext(ctx).Model(&user.User{}).Where("email = ?", email)
	if len(excludedUsers) > 0 {
		ids := make([]uint, 0, len(excludedUsers))
		for _, u := range excludedUsers {
			ids = append(ids, u.ID)
		}
		q = q.Where("id NOT IN ?", ids)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if count > 0 {
		return user.ErrEmailExists
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if err := repo.db.WithContext(ctx).Create(&usr).Error; err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	var users []user.User
	if err := repo.db.WithContext(ctx).Order("created_at").Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return users, nil
}

func (repo userRepository) GetUserByID(ctx context.Context, id uint) (user.User, error) {
	var usr user.User
	if err := repo.db.WithContext(ctx).First(&usr, id).Error; err != nil {
		return user.User{}, repo.trapNotFoundErr(err, "getting user by id")
	}
	return usr, nil
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var usr user.User
	if err := repo.db.WithContext(ctx).Where("email = ?", email).First(&usr).Error; err != nil {
		return user.User{}, repo.trapNotFoundErr(err, "getting user by email")
	}
	return usr, nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	if err := repo.db.WithContext(ctx).Save(&usr).Error; err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return usr, nil
}
