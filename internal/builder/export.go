package builder

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"formflow-backend/internal/store"
)

// ResponsesCSV handles GET /api/forms/:id/responses/csv
//
// Columns follow the catalog's field order by title, plus responder and
// timestamp. Multi-select answers are joined with "; ". Fields that were
// hidden at submit time simply have no stored answer and render empty.
func (h *Handler) ResponsesCSV(c *fiber.Ctx) error {
	tpl, err := h.ownedTemplate(c)
	if err != nil {
		return err
	}

	rows, err := store.QueryRows(c.Context(), h.store.Pool,
		`SELECT responder_id, answers, created_at FROM _form_responses WHERE form_id = $1 ORDER BY created_at`,
		tpl.ID)
	if err != nil {
		return fmt.Errorf("load responses for %s: %w", tpl.ID, err)
	}

	var labels []string
	seen := make(map[string]bool)
	for _, f := range tpl.AllFields() {
		label := f.Content.Title
		if label == "" {
			label = f.ID
		}
		if !seen[label] {
			labels = append(labels, label)
			seen[label] = true
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := append([]string{"responder_id", "submitted_at"}, labels...)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range rows {
		answers := decodeAnswers(row["answers"])

		record := make([]string, 0, len(header))
		record = append(record, fmt.Sprint(row["responder_id"]), formatTimestamp(row["created_at"]))
		for _, label := range labels {
			record = append(record, strings.Join(answers[label], "; "))
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="form-%s-responses.csv"`, tpl.ID))
	return c.Send(buf.Bytes())
}

// decodeAnswers tolerates both the raw JSONB bytes and the already-decoded
// map pgx may hand back.
func decodeAnswers(v any) map[string][]string {
	answers := make(map[string][]string)
	switch val := v.(type) {
	case []byte:
		_ = json.Unmarshal(val, &answers)
	case map[string]any:
		for label, raw := range val {
			switch items := raw.(type) {
			case []any:
				for _, item := range items {
					answers[label] = append(answers[label], fmt.Sprint(item))
				}
			default:
				answers[label] = []string{fmt.Sprint(items)}
			}
		}
	}
	return answers
}

func formatTimestamp(v any) string {
	if t, ok := v.(time.Time); ok {
		return t.Format(time.RFC3339)
	}
	return fmt.Sprint(v)
}
