/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the engine's domain
  types from the external contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - Policy documents reuse factory.PolicyJSON (it already is the schema)

SEE ALSO:
  - handlers.go: Uses these types
  - factory/policy.go: PolicyJSON type
*/
package api

import (
	"time"

	"github.com/warp/flextime/flexcore"
	"github.com/warp/flextime/store/sqlite"
)

// CalculationDTO is the result of one balance calculation.
type CalculationDTO struct {
	RunID              int64  `json:"run_id"`
	BalanceMinutes     int    `json:"balance_minutes"`
	BalanceLabel       string `json:"balance_label"`
	LastConsideredDate string `json:"last_considered_date"`
	RecordCount        int    `json:"record_count"`
	Strategy           string `json:"strategy"`
	CalculatedAt       string `json:"calculated_at"`
}

// RunDTO is one entry of the persisted run history.
type RunDTO struct {
	ID                 int64   `json:"id"`
	CreatedAt          string  `json:"created_at"`
	Strategy           string  `json:"strategy"`
	WeeklyHours        float64 `json:"weekly_hours"`
	BalanceMinutes     int     `json:"balance_minutes"`
	BalanceLabel       string  `json:"balance_label"`
	LastConsideredDate string  `json:"last_considered_date"`
	RecordCount        int     `json:"record_count"`
	SourceDigest       string  `json:"source_digest"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toCalculationDTO(result flexcore.CalculationResult, run sqlite.Run) CalculationDTO {
	return CalculationDTO{
		RunID:              run.ID,
		BalanceMinutes:     result.BalanceMinutes,
		BalanceLabel:       result.BalanceLabel,
		LastConsideredDate: result.LastConsideredDate.String(),
		RecordCount:        run.RecordCount,
		Strategy:           run.Strategy,
		CalculatedAt:       run.CreatedAt.Format(time.RFC3339),
	}
}

func toRunDTO(run sqlite.Run) RunDTO {
	weekly, _ := run.WeeklyHours.Float64()
	return RunDTO{
		ID:                 run.ID,
		CreatedAt:          run.CreatedAt.Format(time.RFC3339),
		Strategy:           run.Strategy,
		WeeklyHours:        weekly,
		BalanceMinutes:     run.BalanceMinutes,
		BalanceLabel:       run.BalanceLabel,
		LastConsideredDate: run.LastConsideredDate,
		RecordCount:        run.RecordCount,
		SourceDigest:       run.SourceDigest,
	}
}

func toRunDTOs(runs []sqlite.Run) []RunDTO {
	dtos := make([]RunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = toRunDTO(run)
	}
	return dtos
}
