// Package scheduler runs background jobs on cron schedules. Its one job
// pre-generates today's question set for users who checked in yesterday, so
// their first request of the day does not wait on the generator.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-health-assistant/internal/domain"
	"github.com/tbourn/go-health-assistant/internal/repo"
	"github.com/tbourn/go-health-assistant/internal/services"
)

// ErrDisabled is returned by Start for an empty schedule.
var ErrDisabled = errors.New("scheduler: no schedule configured")

// Pregenerator ensures today's set for every user active yesterday.
type Pregenerator struct {
	DB          *gorm.DB
	Sessions    services.DayEnsurer
	Description string
	Now         func() time.Time
	Timeout     time.Duration // per run; 0 = none
}

// Result summarizes one run.
type Result struct {
	Day     domain.Day
	Users   int
	Created int
	Failed  int
}

// Run performs one pass. Failures for single users are logged and counted;
// only a failure to list users is returned.
func (p *Pregenerator) Run(ctx context.Context) (Result, error) {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	today := domain.DayOf(now())
	res := Result{Day: today}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	users, err := repo.ListUsersWithQuestionsOn(ctx, p.DB, today.AddDays(-1))
	if err != nil {
		return res, fmt.Errorf("list active users: %w", err)
	}
	res.Users = len(users)
	for _, uid := range users {
		if ctx.Err() != nil {
			res.Failed += len(users) - res.Created - res.Failed
			break
		}
		_, created, err := p.Sessions.EnsureDay(ctx, uid, today, p.Description)
		if err != nil {
			res.Failed++
			log.Warn().Err(err).Uint("user_id", uid).Str("day", today.String()).Msg("pregenerate failed")
			continue
		}
		if created {
			res.Created++
		}
	}
	log.Info().Str("day", today.String()).Int("users", res.Users).Int("created", res.Created).Int("failed", res.Failed).Msg("pregenerate finished")
	return res, nil
}

// Start schedules job on spec (standard five-field cron or descriptors such
// as "@daily"), evaluated in UTC. The caller stops the returned Cron.
func Start(spec string, job func()) (*cron.Cron, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, ErrDisabled
	}
	c := cron.New(cron.WithLocation(time.UTC))
	if _, err := c.AddFunc(spec, job); err != nil {
		return nil, fmt.Errorf("scheduler: invalid schedule %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}

// StartPregenerate schedules p.Run on spec.
func StartPregenerate(spec string, p *Pregenerator) (*cron.Cron, error) {
	return Start(spec, func() {
		if _, err := p.Run(context.Background()); err != nil {
			log.Error().Err(err).Msg("pregenerate run failed")
		}
	})
}
