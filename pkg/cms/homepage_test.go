package cms

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHomepageReturnsData(t *testing.T) {
	srv := newRecordingServer(t, http.StatusOK, `{"data": {"heading": "Hello", "intro": "I build things."}, "meta": {}}`)
	c := newTestClient(t, srv.URL)

	home, err := c.GetHomepage(context.Background())
	require.NoError(t, err)
	require.NotNil(t, home)
	assert.Equal(t, "Hello", home.Heading)
	assert.Equal(t, "I build things.", home.Intro)

	req := srv.last(t)
	assert.Equal(t, "/api/homepage", req.Path)
	assert.Equal(t, "published", req.Query().Get("status"))
	assert.Len(t, req.Query(), 1)
}

func TestGetHomepageNullData(t *testing.T) {
	srv := newRecordingServer(t, http.StatusOK, `{"data": null, "meta": {}}`)
	c := newTestClient(t, srv.URL)

	home, err := c.GetHomepage(context.Background())
	require.NoError(t, err)
	assert.Nil(t, home)
}
