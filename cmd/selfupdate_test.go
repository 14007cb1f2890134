package cmd

import (
	"testing"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSelfUpdateCmd(t *testing.T) {
	selfUpdateCmd := newSelfUpdateCmd()

	assert.Equal(t, "self-update", selfUpdateCmd.Use)
	assert.Contains(t, selfUpdateCmd.Short, "ossec-conf")
	assert.Contains(t, selfUpdateCmd.Long, "latest release of ossec-conf")
	assert.NotNil(t, selfUpdateCmd.RunE)
}

func TestSelfUpdate_RefusesDevelopmentBuilds(t *testing.T) {
	for _, v := range []string{"", "dev"} {
		t.Run("version "+v, func(t *testing.T) {
			withVersion(t, v)
			inst := newInstallation(t)

			out, err := inst.run(t, "self-update")
			require.Error(t, err)
			assert.ErrorContains(t, err, "cannot self-update a development version")
			assert.Equal(t, ExitCodeError, getExitCode(err))
			assert.Empty(t, out, "nothing is printed before the version check")
		})
	}
}

func TestGithubRepoSlug(t *testing.T) {
	owner, repo, err := selfupdate.ParseSlug(githubRepoSlug).GetSlug()
	require.NoError(t, err)
	assert.Equal(t, "wazuh", owner)
	assert.Equal(t, "ossec-hids", repo)
}
