//go:build e2e

package e2e

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"

	"betting_e2e/infrastructure/config"
	"betting_e2e/infrastructure/jira"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJiraClient(t *testing.T) (*jira.Client, config.JiraConfig) {
	t.Helper()
	jiraCfg, err := config.LoadJira(os.Getenv)
	if errors.Is(err, config.ErrJiraNotConfigured) {
		t.Skip(err.Error())
	}
	require.NoError(t, err)
	return jira.NewClient(jiraCfg.URL, jiraCfg.Token, logger), jiraCfg
}

func TestIssue_Lifecycle(t *testing.T) {
	client, jiraCfg := newJiraClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	var id string
	t.Run("create", func(t *testing.T) {
		resp, err := client.CreateIssue(ctx, jira.SampleIssue(jiraCfg.Project))
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.Status, "%+v", resp.Error)
		require.NotEmpty(t, resp.Data.ID)
		id = resp.Data.ID
	})
	require.NotEmpty(t, id, "issue was not created")

	t.Run("latest", func(t *testing.T) {
		resp, err := client.LatestIssue(ctx)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.Status)
		require.NotNil(t, resp.Data)
		assert.NotEmpty(t, resp.Data.ID)
	})

	t.Run("get", func(t *testing.T) {
		resp, err := client.GetIssue(ctx, id)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.Status)
		assert.Equal(t, id, resp.Data.ID)
	})

	t.Run("edit", func(t *testing.T) {
		resp, err := client.UpdateIssue(ctx, id, jira.SampleIssue(jiraCfg.Project))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, resp.Status, "%+v", resp.Error)
		assert.Equal(t, "No Content", resp.StatusText)
	})

	t.Run("delete", func(t *testing.T) {
		resp, err := client.DeleteIssue(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, resp.Status)
		assert.Equal(t, "No Content", resp.StatusText)

		after, err := client.GetIssue(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, after.Status)
	})
}
