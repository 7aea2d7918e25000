package reminder

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/budgetwise/internal"
	reminderDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/reminder"
)

var (
	ErrNotFound         = stderrors.New("reminder not found")
	ErrAlreadyDismissed = stderrors.New("reminder already dismissed")
)

type Repository interface {
	Create(ctx context.Context, r *reminderDatamodel.Reminder) error
	List(ctx context.Context, userID int64, activeOnly bool) ([]*reminderDatamodel.Reminder, error)
	// Dismiss stamps dismissed_at only when it is still unset.
	Dismiss(ctx context.Context, userID, id int64, at time.Time) (*reminderDatamodel.Reminder, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Create(ctx context.Context, userID int64, dto CreateReminderDTO) (*Reminder, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	record := &reminderDatamodel.Reminder{
		UserID:       userID,
		Message:      dto.Message,
		ReminderType: dto.ReminderType,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.Error("failed to create reminder", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("Failed to create reminder", err)
	}
	return FromDataModel(record), nil
}

func (s *Service) List(ctx context.Context, userID int64, includeDismissed bool) ([]*Reminder, error) {
	records, err := s.repo.List(ctx, userID, !includeDismissed)
	if err != nil {
		s.logger.Error("failed to list reminders", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("Failed to fetch reminders", err)
	}

	reminders := make([]*Reminder, 0, len(records))
	for _, r := range records {
		reminders = append(reminders, FromDataModel(r))
	}
	return reminders, nil
}

func (s *Service) Dismiss(ctx context.Context, userID, id int64) (*Reminder, error) {
	record, err := s.repo.Dismiss(ctx, userID, id, s.now().UTC())
	switch {
	case stderrors.Is(err, ErrNotFound):
		return nil, errors.ErrReminderNotFound
	case stderrors.Is(err, ErrAlreadyDismissed):
		return nil, errors.ErrReminderDismissed
	case err != nil:
		s.logger.Error("failed to dismiss reminder", "error", err, "reminder_id", id)
		return nil, errors.NewInternalError("Failed to dismiss reminder", err)
	}

	s.logger.Info("reminder dismissed", "reminder_id", id, "user_id", userID)
	return FromDataModel(record), nil
}
