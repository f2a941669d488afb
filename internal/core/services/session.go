package services

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/custodia-labs/fintab-cli/internal/core/domain"
	"github.com/custodia-labs/fintab-cli/internal/core/ports/driven"
	"github.com/custodia-labs/fintab-cli/internal/logger"
)

// MaxAttempts is the retry ceiling for one table. A table that fails
// validation this many times is recorded as a failure, not retried further.
const MaxAttempts = 3

// fragmentCharLimit caps the table markup sent per request. Oversized
// fragments are truncated and the result is stamped accordingly.
const fragmentCharLimit = 15000

// Default prompt templates, used when no PromptStore is configured or a
// named prompt is missing from it.
const (
	defaultSystemPrompt = "You are a specialized financial auditor. You extract data precisely."

	defaultTablePrompt = `Analyze the following HTML table from the file '%s'.
Extract the data into a JSON object.

CRITICAL SCHEMA RULES:
1. Identify the 'table_type' (e.g. 'Balance Sheet', 'Statement of Operations', 'Schedule of Investments').
2. If it is a Balance Sheet or a Statement of Assets and Liabilities, you MUST extract 'total_assets', 'total_liabilities', and 'net_assets' as numbers.
3. Respond ONLY with the JSON object.

HTML:
%s`

	defaultAuditFailurePrompt = "AUDIT FAILURE: %s Please re-examine the table and provide a corrected JSON object."
)

// Session runs the agentic extraction loop for a single table fragment:
// seed a conversation, call the model, validate, and feed defects back to
// the model until it passes or the retry ceiling is hit.
//
// Each fragment gets its own conversation; sessions share no state.
type Session struct {
	gateway   driven.ModelGateway
	validator driven.RecordValidator
	prompts   driven.PromptStore
}

// NewSession creates an extraction session service.
// prompts is optional; when nil the embedded default prompts are used.
func NewSession(gateway driven.ModelGateway, validator driven.RecordValidator, prompts driven.PromptStore) *Session {
	return &Session{
		gateway:   gateway,
		validator: validator,
		prompts:   prompts,
	}
}

// Run extracts one table fragment. It always returns a record: a validated
// extraction on success, a failure record otherwise. Model transport faults
// are not retried; only validation defects re-enter the loop.
func (s *Session) Run(ctx context.Context, frag domain.TableFragment) domain.Record {
	markup := frag.Markup
	truncated := false
	if len(markup) > fragmentCharLimit {
		logger.Warn("Table %d in %s exceeds %d chars, truncating", frag.Index, frag.Document, fragmentCharLimit)
		// Back off to a rune boundary so the cut never mangles a
		// multi-byte character.
		cut := fragmentCharLimit
		for cut > 0 && !utf8.RuneStart(markup[cut]) {
			cut--
		}
		markup = markup[:cut]
		truncated = true
	}

	conv := domain.NewConversation(
		domain.SystemTurn(s.prompt(driven.PromptExtractSystem, defaultSystemPrompt)),
		domain.UserTurn(fmt.Sprintf(s.prompt(driven.PromptExtractTable, defaultTablePrompt), frag.Document, markup)),
	)

	var lastAttempt domain.Record
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		rec, err := s.gateway.Extract(ctx, conv)
		if err != nil {
			logger.Warn("Table %d in %s: model call failed: %v", frag.Index, frag.Document, err)
			return stampTruncated(domain.FailureRecord(fmt.Sprintf("model gateway: %v", err), lastAttempt), truncated)
		}
		lastAttempt = rec

		outcome := s.validator.Validate(rec)
		if outcome.Valid {
			out := rec.Clone()
			out[domain.FieldValidationStatus] = domain.StatusPassed
			out[domain.FieldAttemptsNeeded] = attempt
			return stampTruncated(out, truncated)
		}

		logger.Debug("Table %d in %s: attempt %d rejected: %s", frag.Index, frag.Document, attempt, outcome.Reason)
		if attempt == MaxAttempts {
			break
		}

		conv = conv.Append(
			domain.AssistantTurn(serialiseAttempt(rec)),
			domain.UserTurn(fmt.Sprintf(s.prompt(driven.PromptAuditFailure, defaultAuditFailurePrompt), outcome.Reason)),
		)
	}

	return stampTruncated(domain.FailureRecord("validation failed after max retries", lastAttempt), truncated)
}

// prompt loads a named template, falling back to the embedded default.
func (s *Session) prompt(name, fallback string) string {
	if s.prompts == nil {
		return fallback
	}
	tmpl, err := s.prompts.Load(name)
	if err != nil || tmpl == "" {
		return fallback
	}
	return tmpl
}

// serialiseAttempt renders a rejected record for replay as an assistant
// turn, so the model sees exactly what it previously claimed.
func serialiseAttempt(rec domain.Record) string {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Sprintf("%v", map[string]any(rec))
	}
	return string(data)
}

func stampTruncated(rec domain.Record, truncated bool) domain.Record {
	if truncated {
		rec[domain.FieldInputTruncated] = true
	}
	return rec
}
