// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package status gives the user per-file feedback and the end-of-run summary.
package status

import (
	"context"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 🎨 Action represents what happened to one source file
type Action int

const (
	ActionCopied Action = iota
	ActionRenamed
	ActionSkipped
	ActionFailed
)

// String returns a string representation of Action
func (a Action) String() string {
	switch a {
	case ActionCopied:
		return "copied"
	case ActionRenamed:
		return "renamed"
	case ActionSkipped:
		return "skipped"
	case ActionFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📢 UserLogger prints user-friendly per-file lines, mirroring each one into
// zerolog for debugging. Under dry-run the verbs become conditional.
type UserLogger struct {
	log    zerolog.Logger
	dryRun bool
}

// 🎯 NewUserLogger creates a user logger bound to the context's zerolog logger
func NewUserLogger(ctx context.Context, dryRun bool) *UserLogger {
	return &UserLogger{
		log:    *zerolog.Ctx(ctx),
		dryRun: dryRun,
	}
}

// 📝 LogFile logs the outcome for one file
func (u *UserLogger) LogFile(action Action, path, detail string, err error) {
	var verb string
	var printer *pterm.PrefixPrinter
	switch action {
	case ActionCopied:
		verb = "Copied"
		printer = pterm.Success.WithPrefix(pterm.Prefix{Text: "✨"})
	case ActionRenamed:
		verb = "Renamed"
		printer = pterm.Info.WithPrefix(pterm.Prefix{Text: "🔀"})
	case ActionSkipped:
		verb = "Skipped"
		printer = pterm.Debug.WithPrefix(pterm.Prefix{Text: "⏭️"})
	case ActionFailed:
		verb = "Failed"
		printer = pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"})
	default:
		verb = "Processed"
		printer = pterm.Info.WithPrefix(pterm.Prefix{Text: "ℹ️"})
	}

	if u.dryRun && action != ActionFailed && action != ActionSkipped {
		verb = "Would have " + strings.ToLower(verb)
	}

	msg := fmt.Sprintf("%s %s", verb, path)
	if detail != "" {
		msg += fmt.Sprintf(" (%s)", detail)
	}

	if err != nil {
		printer.Println(msg)
		pterm.Error.Println(err)
		u.log.Error().Err(err).Msg(msg)
		return
	}
	printer.Println(msg)
	u.log.Info().Str("action", action.String()).Msg(msg)
}

// 📊 LogRunChange logs a run-level state change
func (u *UserLogger) LogRunChange(description string) {
	pterm.Info.WithPrefix(pterm.Prefix{Text: "📦"}).Println(description)
	u.log.Info().Msg(description)
}
