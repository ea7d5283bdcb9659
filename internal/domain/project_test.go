package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("App de Delivery V2"))
	assert.ErrorIs(t, ValidateName(""), ErrEmptyName)
	assert.ErrorIs(t, ValidateName("   "), ErrEmptyName)
}

func TestTimelineValidate(t *testing.T) {
	tl := &Timeline{TotalWeeks: 4, CurrentWeek: 2}
	assert.NoError(t, tl.Validate())

	zero := &Timeline{TotalWeeks: 0}
	assert.ErrorContains(t, zero.Validate(), "at least 1")

	negative := &Timeline{TotalWeeks: 4, CurrentWeek: -1}
	assert.Error(t, negative.Validate())
}

func TestGreetingFor_MentionsProject(t *testing.T) {
	assert.Contains(t, GreetingFor("Checkout"), `"Checkout"`)
}

func TestDisplayID(t *testing.T) {
	p := &Project{ID: "550e8400-e29b-41d4-a716-446655440000"}
	assert.Equal(t, "550e8400", p.DisplayID())

	short := &Project{ID: "abc"}
	assert.Equal(t, "abc", short.DisplayID())
}

func TestProjectClone_IsDeep(t *testing.T) {
	p := &Project{
		ID:       "p1",
		Tasks:    []Task{{ID: "t1", Column: ColumnTodo}},
		Timeline: &Timeline{TotalWeeks: 4, CurrentWeek: 1},
		Insights: []string{"a"},
	}
	c := p.Clone()
	c.Tasks[0].Column = ColumnDoing
	c.Timeline.CurrentWeek = 3
	c.Insights[0] = "b"

	assert.Equal(t, ColumnTodo, p.Tasks[0].Column)
	assert.Equal(t, 1, p.Timeline.CurrentWeek)
	assert.Equal(t, "a", p.Insights[0])
}

func TestFindTask(t *testing.T) {
	p := &Project{Tasks: []Task{{ID: "a"}, {ID: "b"}}}
	assert.Equal(t, 1, p.FindTask("b"))
	assert.Equal(t, -1, p.FindTask("z"))
}

func TestParseProjectStatus(t *testing.T) {
	st, err := ParseProjectStatus("Completed")
	require.NoError(t, err)
	assert.Equal(t, ProjectCompleted, st)

	_, err = ParseProjectStatus("archived")
	assert.Error(t, err)
}
