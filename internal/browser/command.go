package browser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/moov-io/base/log"
)

// CommandExecutor bridges to an external automation program. The program is
// given one JSON request on stdin and is expected to print one JSON outcome
// on stdout. Airline-specific scraping lives entirely inside that program.
type CommandExecutor struct {
	logger  log.Logger
	command string
	timeout time.Duration
}

var _ Executor = (&CommandExecutor{})

func NewCommandExecutor(logger log.Logger, command string, timeout time.Duration) *CommandExecutor {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &CommandExecutor{
		logger:  logger,
		command: command,
		timeout: timeout,
	}
}

type commandRequest struct {
	Identity           string `json:"identity"`
	Username           string `json:"username,omitempty"`
	Password           string `json:"password,omitempty"`
	ConfirmationNumber string `json:"confirmationNumber,omitempty"`
	FirstName          string `json:"firstName,omitempty"`
	LastName           string `json:"lastName,omitempty"`
	CheckFares         string `json:"check_fares"`
	BrowserPath        string `json:"browser_path,omitempty"`
}

type commandOutcome struct {
	Kind       string `json:"kind"`
	Detail     string `json:"detail"`
	PriceDrop  string `json:"price_drop,omitempty"`
	FlightTime string `json:"flight_time,omitempty"`
}

func (c *CommandExecutor) Run(ctx context.Context, req Request) Outcome {
	if c.command == "" {
		return Outcome{
			Kind:   OutcomeError,
			Detail: "no automation command configured",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	input, err := json.Marshal(commandRequest{
		Identity:           req.Identity,
		Username:           req.Username,
		Password:           req.Password,
		ConfirmationNumber: req.ConfirmationNumber,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		CheckFares:         string(req.CheckFares),
		BrowserPath:        req.BrowserPath,
	})
	if err != nil {
		return Outcome{Kind: OutcomeError, Detail: fmt.Sprintf("encoding request: %v", err)}
	}

	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, c.command)
	cmd.Stdin = bytes.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return Outcome{
			Kind:   OutcomeSkippedTimeout,
			Detail: fmt.Sprintf("automation timed out after %v", c.timeout),
		}
	}
	if err != nil {
		c.logger.Warn().Logf("automation command failed: %v (stderr: %s)", err, stderr.String())
		return Outcome{
			Kind:   OutcomeError,
			Detail: fmt.Sprintf("automation command failed: %v", err),
		}
	}

	var raw commandOutcome
	if err := json.Unmarshal(stdout.Bytes(), &raw); err != nil {
		return Outcome{
			Kind:   OutcomeError,
			Detail: fmt.Sprintf("decoding automation output: %v", err),
		}
	}

	out := Outcome{
		Kind:      OutcomeKind(raw.Kind),
		Detail:    raw.Detail,
		PriceDrop: raw.PriceDrop,
	}
	if !out.Kind.Valid() {
		return Outcome{
			Kind:   OutcomeError,
			Detail: fmt.Sprintf("automation reported unknown outcome %q", raw.Kind),
		}
	}
	if raw.FlightTime != "" {
		when, err := time.Parse(time.RFC3339, raw.FlightTime)
		if err == nil {
			out.FlightTime = when
		}
	}
	return out
}
