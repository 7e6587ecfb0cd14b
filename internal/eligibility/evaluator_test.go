package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lifearrow/platform/internal/users"
	"github.com/lifearrow/platform/internal/videos"
)

func scanCond(field string, op videos.Operator, value any) videos.Condition {
	return videos.Condition{Type: videos.ConditionScan, Field: field, Op: op, Value: value}
}

func TestUnconditionedUsesVisibilityShortcut(t *testing.T) {
	pub := &videos.Video{IsPublic: true, UploadedBy: "owner"}
	priv := &videos.Video{IsPublic: false, UploadedBy: "owner"}

	owner := Context{Viewer: Viewer{ID: "owner", Role: users.RoleClient}}
	stranger := Context{Viewer: Viewer{ID: "someone", Role: users.RoleClient}}

	assert.True(t, IsEligible(stranger, pub))
	assert.True(t, IsEligible(owner, priv))
	assert.False(t, IsEligible(stranger, priv))
}

func TestConditionsBypassVisibilityShortcut(t *testing.T) {
	// A private conditioned video with satisfied conditions plays for a
	// non-owner; a public conditioned video with a failed condition does not
	// play even for its owner.
	priv := &videos.Video{
		IsPublic:   false,
		UploadedBy: "owner",
		PlaybackConditions: []videos.Condition{
			scanCond(MetricBodyFat, videos.OpGreaterThan, 25),
		},
	}
	pub := &videos.Video{
		IsPublic:   true,
		UploadedBy: "owner",
		PlaybackConditions: []videos.Condition{
			scanCond(MetricBodyFat, videos.OpGreaterThan, 25),
		},
	}

	stranger := Context{
		Viewer: Viewer{ID: "someone", Role: users.RoleClient},
		Scan:   ScanSnapshot{MetricBodyFat: 30},
	}
	owner := Context{
		Viewer: Viewer{ID: "owner", Role: users.RoleClient},
		Scan:   ScanSnapshot{MetricBodyFat: 20},
	}

	assert.True(t, IsEligible(stranger, priv))
	assert.False(t, IsEligible(owner, pub))
}

func TestConditionsAreANDed(t *testing.T) {
	v := &videos.Video{
		PlaybackConditions: []videos.Condition{
			scanCond(MetricBodyFat, videos.OpGreaterThan, 25),
			scanCond(MetricMuscleMass, videos.OpLessThan, 40),
		},
	}

	both := Context{Scan: ScanSnapshot{MetricBodyFat: 30, MetricMuscleMass: 35}}
	onlyOne := Context{Scan: ScanSnapshot{MetricBodyFat: 30, MetricMuscleMass: 50}}

	assert.True(t, IsEligible(both, v))
	assert.False(t, IsEligible(onlyOne, v))
}

func TestMissingDataFailsClosed(t *testing.T) {
	v := &videos.Video{
		PlaybackConditions: []videos.Condition{
			scanCond(MetricBodyFat, videos.OpGreaterThan, 25),
		},
	}

	assert.False(t, IsEligible(Context{}, v), "no scan at all")
	assert.False(t, IsEligible(Context{Scan: ScanSnapshot{}}, v), "metric absent")
}

func TestReservedConditionTypesFailClosed(t *testing.T) {
	for _, typ := range []videos.ConditionType{
		videos.ConditionAppointment, videos.ConditionDate, videos.ConditionCustom,
	} {
		v := &videos.Video{
			IsPublic: true,
			PlaybackConditions: []videos.Condition{
				{Type: typ, Op: videos.OpEquals, Value: "anything"},
			},
		}
		assert.False(t, IsEligible(Context{}, v), "type %s", typ)
	}
}

func TestRoleConditions(t *testing.T) {
	clientOnly := &videos.Video{
		PlaybackConditions: []videos.Condition{
			{Type: videos.ConditionClient, Op: videos.OpEquals, Value: true},
		},
	}
	practitionerOnly := &videos.Video{
		PlaybackConditions: []videos.Condition{
			{Type: videos.ConditionPractitioner, Op: videos.OpEquals, Value: true},
		},
	}

	client := Context{Viewer: Viewer{ID: "c", Role: users.RoleClient}}
	practitioner := Context{Viewer: Viewer{ID: "p", Role: users.RolePractitioner}}

	assert.True(t, IsEligible(client, clientOnly))
	assert.False(t, IsEligible(practitioner, clientOnly))
	assert.True(t, IsEligible(practitioner, practitionerOnly))
	assert.False(t, IsEligible(client, practitionerOnly))
}

func TestContainsOnClientGoals(t *testing.T) {
	v := &videos.Video{
		PlaybackConditions: []videos.Condition{
			{Type: videos.ConditionClient, Field: "goals", Op: videos.OpContains, Value: "Weight Loss"},
		},
	}

	with := Context{Client: &ClientAttributes{Goals: []string{"Weight Loss", "Mobility"}}}
	without := Context{Client: &ClientAttributes{Goals: []string{"Mobility"}}}
	noClient := Context{}

	assert.True(t, IsEligible(with, v))
	assert.False(t, IsEligible(without, v))
	assert.False(t, IsEligible(noClient, v))
}

func TestBetweenIsInclusive(t *testing.T) {
	v := &videos.Video{
		PlaybackConditions: []videos.Condition{
			{Type: videos.ConditionScan, Field: MetricBodyFat, Op: videos.OpBetween, Value: 18, SecondValue: 25},
		},
	}

	cases := []struct {
		bf   float64
		want bool
	}{
		{17.9, false},
		{18, true},
		{21, true},
		{25, true},
		{25.1, false},
	}
	for _, tc := range cases {
		ec := Context{Scan: ScanSnapshot{MetricBodyFat: tc.bf}}
		assert.Equal(t, tc.want, IsEligible(ec, v), "body fat %v", tc.bf)
	}
}

func TestEqualsCoercesNumerically(t *testing.T) {
	v := &videos.Video{
		PlaybackConditions: []videos.Condition{
			// Stored condition values often arrive as strings from JSON forms.
			scanCond(MetricWellnessScore, videos.OpEquals, "85"),
		},
	}

	hit := Context{Scan: ScanSnapshot{MetricWellnessScore: 85}}
	miss := Context{Scan: ScanSnapshot{MetricWellnessScore: 84}}

	assert.True(t, IsEligible(hit, v))
	assert.False(t, IsEligible(miss, v))
}

func TestNonCoercibleOperandFailsClosed(t *testing.T) {
	v := &videos.Video{
		PlaybackConditions: []videos.Condition{
			scanCond(MetricBodyFat, videos.OpGreaterThan, "not a number"),
		},
	}
	ec := Context{Scan: ScanSnapshot{MetricBodyFat: 30}}
	assert.False(t, IsEligible(ec, v))
}

func TestUnknownOperatorFailsClosed(t *testing.T) {
	v := &videos.Video{
		PlaybackConditions: []videos.Condition{
			{Type: videos.ConditionScan, Field: MetricBodyFat, Op: "matches", Value: 1},
		},
	}
	ec := Context{Scan: ScanSnapshot{MetricBodyFat: 1}}
	assert.False(t, IsEligible(ec, v))
}
