package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
	errx "github.com/Chative-core-poc-v1/leadqual/internal/core/error"
	"github.com/Chative-core-poc-v1/leadqual/internal/metrics"
	logx "github.com/Chative-core-poc-v1/leadqual/pkg/logger"
)

// basic safety limits to avoid pathological replies
const (
	maxContentLen = 128 * 1024
	maxKeys       = 200
	maxValueLen   = 4 * 1024
	maxErrSnippet = 200
)

// Fallback produces substitute values after a failed structured call. It
// returns ok=false when it has nothing to offer.
type Fallback func(err error) (values map[string]string, ok bool)

// StructuredCall sends prompt and decodes the reply as a flat JSON object of
// string values. On transport or decode failure it consults fallback; when
// the fallback has nothing, the error is returned.
func StructuredCall(ctx context.Context, o model.Oracle, prompt string, fallback Fallback) (map[string]string, error) {
	site := CallSite(ctx)

	raw, err := o.Complete(ctx, prompt)
	if err == nil {
		var values map[string]string
		values, err = ParseObject(raw)
		if err != nil {
			metrics.OracleCalls.WithLabelValues(site, "malformed").Inc()
			logx.Warn().Str("call_site", site).Str("snippet", safeSnippet(raw)).Err(err).Msg("structured reply rejected")
		} else {
			return values, nil
		}
	}

	if fallback != nil {
		if values, ok := fallback(err); ok {
			metrics.OracleCalls.WithLabelValues(site, "fallback").Inc()
			logx.Debug().Str("call_site", site).Int("values", len(values)).Msg("structured call fell back")
			return values, nil
		}
	}
	return nil, err
}

// ParseObject extracts the first JSON object from content, tolerating a
// fenced code block or prose around it, and flattens its values to strings.
// Null and empty values are dropped.
func ParseObject(content string) (values map[string]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("component", "structured_parser").Msgf("panic recovered: %v", r)
			err = errx.New(fmt.Errorf("structured parser panic"), http.StatusInternalServerError, errx.SystemErrorMessage)
			values = nil
		}
	}()

	content = truncate(content, maxContentLen)
	body := extractObject(stripFences(content))
	if body == "" {
		return nil, fmt.Errorf("%w: no json object", errx.ErrMalformedOutput)
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", errx.ErrMalformedOutput, err)
	}
	if len(raw) > maxKeys {
		return nil, fmt.Errorf("%w: too many keys", errx.ErrMalformedOutput)
	}

	values = make(map[string]string, len(raw))
	for k, v := range raw {
		s := flatten(v)
		if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "none") {
			continue
		}
		s = truncate(s, maxValueLen)
		values[strings.TrimSpace(k)] = s
	}
	return values, nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

func extractObject(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func flatten(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case bool:
		if t {
			return "Yes"
		}
		return "No"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := flatten(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func safeSnippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxErrSnippet {
		return s
	}
	return s[:maxErrSnippet]
}
