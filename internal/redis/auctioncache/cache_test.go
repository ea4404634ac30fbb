package auctioncache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_HitAfterPut(t *testing.T) {
	rdc, mock := redismock.NewClientMock()
	c := New(rdc, 30*time.Second)
	payload := []byte(`{"id":"auc-1","status":"Live"}`)

	mock.ExpectSet("auc_cache:auc-1", payload, 30*time.Second).SetVal("OK")
	mock.ExpectGet("auc_cache:auc-1").SetVal(string(payload))

	c.Put(context.Background(), "auc-1", payload)
	got, ok := c.Get(context.Background(), "auc-1")
	require.True(t, ok)
	assert.Equal(t, payload, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCache_Miss(t *testing.T) {
	rdc, mock := redismock.NewClientMock()
	c := New(rdc, 30*time.Second)

	mock.ExpectGet("auc_cache:missing").RedisNil()

	_, ok := c.Get(context.Background(), "missing")
	assert.False(t, ok)
}

func TestCache_Drop(t *testing.T) {
	rdc, mock := redismock.NewClientMock()
	c := New(rdc, 30*time.Second)

	mock.ExpectDel("auc_cache:auc-1").SetVal(1)

	c.Drop(context.Background(), "auc-1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCache_NilIsAlwaysAMiss(t *testing.T) {
	var c *Cache

	_, ok := c.Get(context.Background(), "auc-1")
	assert.False(t, ok)
	// writes on a nil cache are no-ops, not panics
	c.Put(context.Background(), "auc-1", []byte("x"))
	c.Drop(context.Background(), "auc-1")
}
