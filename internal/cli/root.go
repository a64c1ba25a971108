// Package cli implements the seed command: maintenance and test-data
// operations against the same database the server uses.
package cli

import (
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-health-assistant/internal/domain"
	"github.com/tbourn/go-health-assistant/internal/services"
)

// SampleAnswers are the canned answers used to backfill past days.
var SampleAnswers = []string{
	"I feel good today, no major issues",
	"Slight discomfort in the morning, but improved throughout the day",
	"Energy level is about 7/10",
	"Sleep was restful, about 8 hours",
	"Appetite is normal, eating regularly",
	"No new symptoms observed",
	"Pain level is around 3/10",
	"Feeling better than yesterday",
	"Some fatigue in the afternoon",
	"Overall condition is stable",
}

// DefaultBackfillDescription is the patient description used for backfilled sets.
const DefaultBackfillDescription = "General health monitoring for testing"

// App holds what the commands operate on.
type App struct {
	Admin *services.AdminService

	// Now is the clock; nil means time.Now.
	Now func() time.Time
	// Description overrides DefaultBackfillDescription when set.
	Description string
	// Answers overrides SampleAnswers when set.
	Answers []string
	// Shuffle reorders answers before a backfill; nil means math/rand.
	Shuffle func([]string)
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) today() domain.Day { return domain.DayOf(a.now()) }

func (a *App) answers() []string {
	src := a.Answers
	if len(src) == 0 {
		src = SampleAnswers
	}
	out := append([]string(nil), src...)
	if a.Shuffle != nil {
		a.Shuffle(out)
	} else {
		rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	}
	return out
}

// NewRootCmd creates the top-level "seed" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "seed",
		Short:         "Test data and maintenance for the health assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newBackfillCmd(app),
		newResetCmd(app),
		newSeedQuestionsCmd(app),
	)

	return root
}
