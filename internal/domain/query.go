package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validation errors for AlertQuery.
var (
	ErrInvalidTimeRange = errors.New("end time must not be before start time")
)

// AlertQuery describes the server-side criteria for one accumulation run.
// Zero Start or End leaves that side of the range unbounded.
type AlertQuery struct {
	// Start bounds the range on the left, in Unix seconds. Zero means
	// unbounded.
	Start int64 `json:"start"`

	// End bounds the range on the right, in Unix seconds. Zero means
	// unbounded.
	End int64 `json:"end"`

	// IncludeCleared selects cleared alerts instead of active ones.
	IncludeCleared bool `json:"include_cleared"`
}

// LastDayQuery returns a query covering the 24 hours up to now.
func LastDayQuery(includeCleared bool) AlertQuery {
	now := time.Now()
	return AlertQuery{
		Start:          now.Add(-24 * time.Hour).Unix(),
		End:            now.Unix(),
		IncludeCleared: includeCleared,
	}
}

// Validate rejects a query whose bounded range is inverted. An inverted
// range would produce a nonsensical upstream filter, so it is refused
// before any request is issued.
func (q AlertQuery) Validate() error {
	if q.Start != 0 && q.End != 0 && q.End < q.Start {
		return ErrInvalidTimeRange
	}
	return nil
}

// FilterExpression builds the comma-joined predicate string the upstream
// listing endpoint expects. Rule and type are always wildcarded; the
// cleared clause tracks IncludeCleared.
func (q AlertQuery) FilterExpression() string {
	clauses := make([]string, 0, 5)
	if q.Start != 0 {
		clauses = append(clauses, fmt.Sprintf("startEpoch>:%d", q.Start))
	}
	if q.End != 0 {
		clauses = append(clauses, fmt.Sprintf("startEpoch<:%d", q.End))
	}
	clauses = append(clauses, `rule:"*"`, `type:"*"`)
	clauses = append(clauses, fmt.Sprintf(`cleared:"%t"`, q.IncludeCleared))
	return strings.Join(clauses, ",")
}
