package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"service-schedule/internal/domain"
	"service-schedule/internal/repository"
)

// EmitDailyDigestIfDue emits at most one digest per department per day,
// listing the day's approved events. The MarkSent update inside the
// transaction keeps concurrent instances from double-sending.
func (s *ScheduleService) EmitDailyDigestIfDue(ctx context.Context, now time.Time) error {
	var settings []domain.DigestSettings
	err := s.txManager.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		var err error
		settings, err = repos.Settings.ListAll(ctx)
		return err
	})
	if err != nil {
		return err
	}

	for _, setting := range settings {
		if !isDigestDue(setting, now) {
			continue
		}

		date := truncateToDateLocal(now)
		var emitted bool
		err := s.txManager.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
			marked, err := repos.Settings.MarkSent(ctx, setting.DepartmentID, date)
			if err != nil {
				return err
			}
			if !marked {
				return nil
			}
			emitted = true

			events, err := repos.Events.ListOverlapping(ctx, date, date.AddDate(0, 0, 1))
			if err != nil {
				return err
			}

			approved := make([]domain.EventSlotPayload, 0, len(events))
			for _, event := range events {
				if event.Status != domain.StatusApproved {
					continue
				}
				approved = append(approved, eventToSlotPayload(event))
			}

			payload := domain.DailyScheduleDigestPayload{
				DepartmentID: setting.DepartmentID.String(),
				Date:         date.Format("2006-01-02"),
				Channel:      setting.Channel,
				Template:     setting.Template,
				Events:       approved,
			}

			return repos.Outbox.Insert(ctx, domain.ScheduleEvent{
				EventType: "DailyScheduleDigest",
				Payload:   payload,
			})
		})
		if err != nil {
			return err
		}

		if emitted {
			s.logger.Debug("daily digest emitted",
				zap.String("department_id", setting.DepartmentID.String()),
				zap.String("date", date.Format("2006-01-02")),
			)
		}
	}

	return nil
}

func isDigestDue(setting domain.DigestSettings, now time.Time) bool {
	localNow := now.In(time.Local)
	sendAt := time.Date(
		localNow.Year(),
		localNow.Month(),
		localNow.Day(),
		setting.DigestTime.Hour(),
		setting.DigestTime.Minute(),
		setting.DigestTime.Second(),
		0,
		localNow.Location(),
	)

	if localNow.Before(sendAt) {
		return false
	}
	if setting.LastSentDate == nil {
		return true
	}
	return truncateToDateLocal(*setting.LastSentDate).Before(truncateToDateLocal(localNow))
}
