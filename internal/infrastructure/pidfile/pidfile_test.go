package pidfile_test

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/slotworks-go/internal/infrastructure/pidfile"
)

func TestPIDFile_AcquireAndRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.pid")
	p := pidfile.New(path)

	require.NoError(t, p.Acquire())
	pid, running := p.Running()
	assert.True(t, running)
	assert.Equal(t, os.Getpid(), pid)

	require.NoError(t, p.Release())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, p.Release())
}

func TestPIDFile_ReplacesStaleAndInvalidFiles(t *testing.T) {
	for name, content := range map[string]string{
		"garbage": "not-a-pid\n",
		"dead":    "999999999\n",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "daemon.pid")
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))

			require.NoError(t, pidfile.New(path).Acquire())

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, strconv.Itoa(os.Getpid())+"\n", string(data))
		})
	}
}

func TestPIDFile_RejectsLiveOwner(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.pid")
	parent := os.Getppid()
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(parent)), 0644))

	err := pidfile.New(path).Acquire()

	var running *pidfile.ErrAlreadyRunning
	require.ErrorAs(t, err, &running)
	assert.Equal(t, parent, running.PID)
}

func TestPIDFile_ReleaseKeepsForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.pid")
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(os.Getppid())), 0644))

	require.NoError(t, pidfile.New(path).Release())

	_, err := os.Stat(path)
	assert.NoError(t, err)
}
