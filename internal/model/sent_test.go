package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSent_Kind(t *testing.T) {
	parent := "parent-1"

	tests := []struct {
		name string
		sent Sent
		want Kind
	}{
		{"nil parent is root", Sent{}, KindRoot},
		{"root ignores forwarded flag", Sent{IsForwarded: true}, KindRoot},
		{"parent without flag is reply", Sent{ParentSentID: &parent}, KindReply},
		{"parent with flag is forward", Sent{ParentSentID: &parent, IsForwarded: true}, KindForward},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sent.Kind())
		})
	}
}

func TestSent_IsRoot(t *testing.T) {
	parent := "parent-1"
	assert.True(t, (&Sent{}).IsRoot())
	assert.False(t, (&Sent{ParentSentID: &parent}).IsRoot())
}

func TestSent_RoleOf(t *testing.T) {
	s := Sent{SenderID: "user-a", ReceiverID: "user-b"}

	assert.Equal(t, RoleSender, s.RoleOf("user-a"))
	assert.Equal(t, RoleReceiver, s.RoleOf("user-b"))
	assert.Equal(t, RoleNone, s.RoleOf("user-z"))
	assert.Equal(t, RoleNone, s.RoleOf(""))
}

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"PENDING", "SENT", "RECEIVED", "READ", "DONE", "ARCHIVED"} {
		got, err := ParseStatus(valid)
		assert.NoError(t, err)
		assert.Equal(t, Status(valid), got)
	}

	for _, invalid := range []string{"", "sent", "Read", "SHREDDED"} {
		_, err := ParseStatus(invalid)
		assert.Error(t, err, "%q must be rejected", invalid)
	}
}
