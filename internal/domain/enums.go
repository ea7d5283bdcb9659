package domain

import (
	"fmt"
	"strings"
)

type RiskLevel string

const (
	RiskOnTrack  RiskLevel = "on_track"
	RiskAtRisk   RiskLevel = "at_risk"
	RiskCritical RiskLevel = "critical"
)

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectPaused    ProjectStatus = "paused"
)

// ValidProjectStatuses is the canonical set of accepted project status strings.
var ValidProjectStatuses = map[ProjectStatus]bool{
	ProjectActive: true, ProjectCompleted: true, ProjectPaused: true,
}

// ParseProjectStatus validates a user-supplied status string.
func ParseProjectStatus(s string) (ProjectStatus, error) {
	st := ProjectStatus(strings.ToLower(strings.TrimSpace(s)))
	if !ValidProjectStatuses[st] {
		return "", fmt.Errorf("invalid project status %q (expected active, completed or paused)", s)
	}
	return st, nil
}

// Column is a pipeline stage. The stored values are the board labels.
type Column string

const (
	ColumnTodo       Column = "A Fazer"
	ColumnDoing      Column = "Fazendo"
	ColumnTesting    Column = "Testes"
	ColumnDeployDev  Column = "Deploy Dev"
	ColumnDeployProd Column = "Deploy Prod"
)

// Columns lists the pipeline stages in board order. The sequence is fixed.
var Columns = []Column{
	ColumnTodo,
	ColumnDoing,
	ColumnTesting,
	ColumnDeployDev,
	ColumnDeployProd,
}

var columnKeys = map[string]Column{
	"todo":        ColumnTodo,
	"doing":       ColumnDoing,
	"testing":     ColumnTesting,
	"deploy_dev":  ColumnDeployDev,
	"deploy_prod": ColumnDeployProd,
}

// Key returns the short machine name of the column (e.g. "deploy_dev").
func (c Column) Key() string {
	for k, v := range columnKeys {
		if v == c {
			return k
		}
	}
	return ""
}

// Valid reports whether c is one of the five pipeline stages.
func (c Column) Valid() bool {
	for _, col := range Columns {
		if col == c {
			return true
		}
	}
	return false
}

// ParseColumn accepts either a board label ("Deploy Dev") or a key
// ("deploy_dev", "deploy-dev"), case-insensitively.
func ParseColumn(s string) (Column, error) {
	trimmed := strings.TrimSpace(s)
	for _, col := range Columns {
		if strings.EqualFold(string(col), trimmed) {
			return col, nil
		}
	}
	key := strings.ReplaceAll(strings.ToLower(trimmed), "-", "_")
	if col, ok := columnKeys[key]; ok {
		return col, nil
	}
	return "", fmt.Errorf("invalid column %q (expected one of todo, doing, testing, deploy_dev, deploy_prod)", s)
}

type Squad string

const (
	SquadUXUI     Squad = "UX/UI"
	SquadBackend  Squad = "Backend"
	SquadFrontend Squad = "Frontend"
	SquadGeneral  Squad = "Geral"
)

// Squads lists the work streams in display order.
var Squads = []Squad{SquadUXUI, SquadBackend, SquadFrontend, SquadGeneral}

// ParseSquad validates a squad name. The empty string is accepted and means
// "unset".
func ParseSquad(s string) (Squad, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", nil
	}
	for _, sq := range Squads {
		if strings.EqualFold(string(sq), trimmed) {
			return sq, nil
		}
	}
	return "", fmt.Errorf("invalid squad %q (expected UX/UI, Backend, Frontend or Geral)", s)
}

type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)
