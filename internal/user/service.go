// Package user はユーザー登録とプロフィール管理のドメインロジックを提供する。
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/snehasish51/cartify-backend/internal/auth"
	"github.com/snehasish51/cartify-backend/internal/events"
	"github.com/snehasish51/cartify-backend/internal/model"
	"github.com/snehasish51/cartify-backend/internal/repository"
)

// minPasswordLength はIdPが受け付けるパスワードの最小長。
const minPasswordLength = 6

// RegistrationRecorder は登録成功を記録するインターフェース。
type RegistrationRecorder interface {
	RecordUserRegistered()
}

// Service はユーザー管理のサービス層。
type Service struct {
	users     repository.UserRepository
	accounts  auth.AccountManager
	publisher events.Publisher
	recorder  RegistrationRecorder
	now       func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
// publisherとrecorderはnilでもよい。
func NewService(
	users repository.UserRepository,
	accounts auth.AccountManager,
	publisher events.Publisher,
	recorder RegistrationRecorder,
) *Service {
	return &Service{
		users:     users,
		accounts:  accounts,
		publisher: publisher,
		recorder:  recorder,
		now:       time.Now,
	}
}

// Register はIdPにアカウントを作成し、同じuidをキーにユーザードキュメントを作成する。
// ドキュメント作成に失敗した場合はIdPのアカウントを削除して元に戻す。
func (s *Service) Register(ctx context.Context, in model.UserRegistration) (*model.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Phone = strings.TrimSpace(in.Phone)

	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	uid, err := s.accounts.CreateAccount(ctx, auth.NewAccount{
		Email:       in.Email,
		Password:    in.Password,
		DisplayName: strings.TrimSpace(in.FirstName + " " + in.LastName),
	})
	if err != nil {
		if errors.Is(err, auth.ErrEmailAlreadyExists) {
			return nil, model.NewAlreadyExistsError("Email")
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	user := &model.User{
		ID:        uid,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Cart:      []any{},
		Wishlist:  []any{},
		Addresses: []any{},
		CreatedAt: s.now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		s.rollbackAccount(ctx, uid)
		return nil, fmt.Errorf("failed to create user document: %w", err)
	}

	slog.Info("user registered", slog.String("user_id", uid))
	if s.recorder != nil {
		s.recorder.RecordUserRegistered()
	}
	events.Emit(ctx, s.publisher, events.New(events.TypeUserCreated, uid, map[string]string{
		"email": user.Email,
	}))

	return user, nil
}

// rollbackAccount は作成済みのIdPアカウントを削除する。失敗はログのみ。
func (s *Service) rollbackAccount(ctx context.Context, uid string) {
	// リクエストがキャンセルされていても補償は実行する
	if err := s.accounts.DeleteAccount(context.WithoutCancel(ctx), uid); err != nil {
		slog.Error("failed to roll back account after user document failure",
			slog.String("user_id", uid),
			slog.String("error", err.Error()),
		)
	}
}

func validateRegistration(in model.UserRegistration) error {
	var missing []string
	if in.Email == "" {
		missing = append(missing, "email")
	}
	if in.Password == "" {
		missing = append(missing, "password")
	}
	if in.FirstName == "" {
		missing = append(missing, "firstName")
	}
	if in.LastName == "" {
		missing = append(missing, "lastName")
	}
	if len(missing) > 0 {
		return model.NewInvalidInputError("Missing required fields: " + strings.Join(missing, ", "))
	}

	if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		return model.NewInvalidInputError("Invalid email address")
	}
	if len(in.Password) < minPasswordLength {
		return model.NewInvalidInputError(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	return nil
}

// GetProfile はuidに対応するユーザーを返す。存在しない場合はUSER_NOT_FOUND。
func (s *Service) GetProfile(ctx context.Context, uid string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// UpdateProfile はリクエストボディのうち更新可能かつ値が真であるフィールドだけを書き込み、
// 更新後のユーザーを読み直して返す。
// 存在確認を先に行うため、存在しないユーザーへの空の更新は404になる。
func (s *Service) UpdateProfile(ctx context.Context, uid string, body map[string]any) (*model.User, error) {
	if _, err := s.GetProfile(ctx, uid); err != nil {
		return nil, err
	}

	fields := profileUpdates(body)
	if len(fields) == 0 {
		return nil, model.NewNoValidFieldsError()
	}

	if err := s.users.Update(ctx, uid, fields); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, model.NewUserNotFoundError()
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	updated, err := s.GetProfile(ctx, uid)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	slog.Info("user profile updated",
		slog.String("user_id", uid),
		slog.String("fields", strings.Join(names, ",")),
	)
	events.Emit(ctx, s.publisher, events.New(events.TypeUserUpdated, uid, map[string]any{
		"fields": names,
	}))

	return updated, nil
}

// profileUpdates は更新対象のフィールドを取り出す。
// 偽値（null, false, 0, ""）のフィールドは無視し、真値は型を問わずそのまま書き込む。
func profileUpdates(body map[string]any) map[string]any {
	fields := make(map[string]any)
	for _, name := range model.ProfileFields {
		if v, ok := body[name]; ok && truthy(v) {
			fields[name] = v
		}
	}
	return fields
}

// truthy はJSONから復元した値の真偽を判定する。
// 配列とオブジェクトは空でも真。
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0 && !math.IsNaN(val)
	case string:
		return val != ""
	default:
		return true
	}
}
