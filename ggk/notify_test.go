package ggk

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
)

func TestNotifyQueueCoalesces(t *testing.T) {
	q := newNotifyQueue()
	q.push(dbus.ObjectPath("/a"))
	q.push(dbus.ObjectPath("/a"))
	q.push(dbus.ObjectPath("/b"))

	got := q.drain()
	assert.Equal(t, []dbus.ObjectPath{"/a", "/b"}, got)
}

func TestNotifyQueueDrainEmpties(t *testing.T) {
	q := newNotifyQueue()
	q.push(dbus.ObjectPath("/a"))
	q.drain()
	assert.Nil(t, q.drain())
}
