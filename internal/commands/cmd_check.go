package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/signup/internal/core/rules"
	"github.com/hay-kot/signup/pkg/iojson"
)

type CheckCmd struct {
	flags  *Flags
	values map[rules.Field]*string
	today  string
	input  iojson.FileReader[map[string]string]
}

// CheckResult is the JSON document printed by `signup check`.
type CheckResult struct {
	Valid  bool              `json:"valid"`
	Fields rules.Verdict     `json:"fields"`
	Errors map[string]string `json:"errors,omitempty"`
}

// NewCheckCmd creates the non-interactive validation command.
func NewCheckCmd(flags *Flags) *CheckCmd {
	values := make(map[rules.Field]*string, len(rules.Fields))
	for _, f := range rules.Fields {
		values[f] = new(string)
	}
	return &CheckCmd{flags: flags, values: values}
}

// Register adds the check command to the application.
func (cmd *CheckCmd) Register(app *cli.Command) *cli.Command {
	flags := make([]cli.Flag, 0, len(rules.Fields)+2)
	for _, f := range rules.Fields {
		flags = append(flags, &cli.StringFlag{
			Name:        string(f),
			Usage:       fmt.Sprintf("value of the %s field", f),
			Destination: cmd.values[f],
		})
	}
	flags = append(flags,
		&cli.StringFlag{
			Name:        "today",
			Usage:       "reference day for the birthday rule (YYYY-MM-DD, defaults to the current day)",
			Destination: &cmd.today,
		},
		cmd.input.Flag(),
	)

	app.Commands = append(app.Commands, &cli.Command{
		Name:      "check",
		Usage:     "Validate sign-up values without the form",
		UsageText: "signup check [--name NAME ...] [-f values.json]",
		Description: `Runs every field rule against the given values and prints the verdict as
JSON. Values come from a JSON object keyed by field name (-f or piped stdin);
field flags override it. --today pins the birthday reference day.

Exits 1 when any field is invalid. Unusable input (an unknown field, an
unreadable file, a bad --today) exits 2 with a JSON error on stderr.`,
		Flags:  flags,
		Action: cmd.run,
	})
	return app
}

// Exit codes of `signup check`.
const (
	exitInvalidForm = 1
	exitBadInput    = 2
)

func (cmd *CheckCmd) run(_ context.Context, c *cli.Command) error {
	r, err := cmd.buildRules()
	if err != nil {
		return fail(c, err, map[string]any{"today": cmd.today})
	}

	values, err := cmd.collect(c)
	if err != nil {
		var unknown unknownFieldError
		if errors.As(err, &unknown) {
			return fail(c, err, map[string]any{"field": string(unknown)})
		}
		return fail(c, err, nil)
	}

	result := Check(r, values)
	log.Debug().Bool("valid", result.Valid).Msg("check complete")

	if err := iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, result); err != nil {
		return err
	}
	if !result.Valid {
		return cli.Exit("", exitInvalidForm)
	}
	return nil
}

// buildRules returns the rules for this run. An explicit --today pins the
// reference day regardless of the configured today mode.
func (cmd *CheckCmd) buildRules() (rules.Rules, error) {
	if cmd.today == "" {
		return cmd.flags.Config.Rules(time.Now()), nil
	}

	t, ok := rules.ParseDate(cmd.today, time.Local)
	if !ok {
		return rules.Rules{}, fmt.Errorf("invalid --today %q", cmd.today)
	}
	return rules.New(t), nil
}

// fail writes err to stderr as a JSON error document and exits with
// exitBadInput, so callers can tell unusable input from an invalid form.
func fail(c *cli.Command, err error, data map[string]any) error {
	if werr := iojson.WriteError(c.Root().ErrWriter, err.Error(), data); werr != nil {
		return errors.Join(err, werr)
	}
	return cli.Exit("", exitBadInput)
}

type unknownFieldError string

func (e unknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q", string(e))
}

// collect merges the JSON input with any field flags that were set.
func (cmd *CheckCmd) collect(c *cli.Command) (rules.Values, error) {
	values := make(rules.Values, len(rules.Fields))

	anyFlag := false
	for _, f := range rules.Fields {
		if c.IsSet(string(f)) {
			anyFlag = true
		}
	}

	if c.IsSet("file") || (!anyFlag && cmd.input.Provided()) {
		in, err := cmd.input.Read()
		switch {
		case errors.Is(err, io.EOF):
		case err != nil:
			return nil, fmt.Errorf("read values: %w", err)
		}
		for k, v := range in {
			f := rules.Field(k)
			if !f.IsValid() {
				return nil, unknownFieldError(k)
			}
			values[f] = v
		}
	}

	for _, f := range rules.Fields {
		if c.IsSet(string(f)) {
			values[f] = *cmd.values[f]
		}
	}
	return values, nil
}

// Check evaluates values and builds the printed result.
func Check(r rules.Rules, values rules.Values) CheckResult {
	verdict := r.Evaluate(values)
	result := CheckResult{Valid: verdict.Valid(), Fields: verdict}

	var fieldErrs criterio.FieldErrors
	if errors.As(verdict.Err(), &fieldErrs) {
		result.Errors = make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			result.Errors[fe.Field] = fe.Err.Error()
		}
	}
	return result
}
