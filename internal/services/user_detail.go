package services

import (
  "context"
  "strings"

  "gorm.io/gorm"

  "github.com/yungbote/storefront-backend/internal/logger"
)

// UserDetail is the minimal identity projection used to label installation
// records. The platform user service owns the full profile.
type UserDetail struct {
  UserID    string
  FirstName string
  LastName  string
  Email     string
}

func (u *UserDetail) DisplayName() string {
  name := strings.TrimSpace(u.FirstName + " " + u.LastName)
  if name != "" {
    return name
  }
  return u.Email
}

// UserDetailProvider resolves a user id to display details. Lookups are
// best effort; a nil return means the caller falls back to whatever name
// it already has.
type UserDetailProvider interface {
  GetUserDetail(ctx context.Context, userID string) *UserDetail
}

type dbUserDetailProvider struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewUserDetailProvider(db *gorm.DB, baseLog *logger.Logger) UserDetailProvider {
  return &dbUserDetailProvider{db: db, log: baseLog.With("service", "UserDetailProvider")}
}

func (p *dbUserDetailProvider) GetUserDetail(ctx context.Context, userID string) *UserDetail {
  if userID == "" {
    return nil
  }

  var detail UserDetail
  err := p.db.WithContext(ctx).
    Table("users").
    Select("id AS user_id, first_name, last_name, email").
    Where("id = ?", userID).
    Scan(&detail).Error
  if err != nil {
    p.log.Warn("User detail lookup failed", "error", err, "user_id", userID)
    return nil
  }
  if detail.UserID == "" {
    return nil
  }
  return &detail
}
