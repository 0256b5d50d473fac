package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestWidgetInstanceTransitions(t *testing.T) {
	inst := NewWidgetInstance("inst_1", "abc", t0)
	require.NoError(t, inst.Validate())
	assert.Equal(t, StateIdle, inst.State())

	inst.Begin(t0.Add(time.Second))
	require.NoError(t, inst.Validate())
	assert.Equal(t, StateAnimating, inst.State())
	assert.Equal(t, 1, inst.CurrentFrame)
	assert.True(t, inst.AnimationStartTime.Equal(t0.Add(time.Second)))

	inst.Advance(5, t0.Add(2*time.Second))
	assert.Equal(t, 5, inst.CurrentFrame)

	inst.Finish(t0.Add(3 * time.Second))
	require.NoError(t, inst.Validate())
	assert.Nil(t, inst.AnimationStartTime)
	assert.Equal(t, 1, inst.CurrentFrame)
	assert.True(t, inst.LastInteraction.Equal(t0.Add(3*time.Second)))
}

func TestWidgetInstanceValidate(t *testing.T) {
	start := t0
	tests := []struct {
		name    string
		inst    WidgetInstance
		wantErr bool
	}{
		{"idle", WidgetInstance{InstanceID: "a", CurrentFrame: 1}, false},
		{"animating", WidgetInstance{InstanceID: "a", CurrentFrame: 3, IsAnimating: true, AnimationStartTime: &start}, false},
		{"animating without start", WidgetInstance{InstanceID: "a", CurrentFrame: 1, IsAnimating: true}, true},
		{"idle with start", WidgetInstance{InstanceID: "a", CurrentFrame: 1, AnimationStartTime: &start}, true},
		{"zero frame", WidgetInstance{InstanceID: "a"}, true},
		{"no id", WidgetInstance{CurrentFrame: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.inst.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWidgetInstanceReassign(t *testing.T) {
	inst := NewWidgetInstance("inst_1", "abc", t0)
	inst.Begin(t0)
	inst.Advance(20, t0)

	inst.Reassign("small", 8, t0.Add(time.Minute))
	assert.Equal(t, "small", inst.DesignID)
	assert.Equal(t, 1, inst.CurrentFrame)
	assert.True(t, inst.IsAnimating)

	inst.Advance(4, t0)
	inst.Reassign("big", 30, t0)
	assert.Equal(t, 4, inst.CurrentFrame)
}

func TestWidgetInstanceJSONShape(t *testing.T) {
	inst := NewWidgetInstance("inst_1", "abc", t0)

	data, err := json.Marshal(inst)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "animationStartTime")
	assert.Nil(t, raw["animationStartTime"])
	assert.Equal(t, "2026-03-01T12:00:00Z", raw["lastInteraction"])
	assert.Equal(t, "abc", raw["designId"])
}

func TestWidgetInstanceClone(t *testing.T) {
	inst := NewWidgetInstance("inst_1", "abc", t0)
	inst.Begin(t0)

	c := inst.Clone()
	c.AnimationStartTime = nil
	assert.NotNil(t, inst.AnimationStartTime)
}
