package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wazuh/ossec-hids/internal/config"
	"github.com/wazuh/ossec-hids/internal/manager"
)

type recorded struct {
	mu      sync.Mutex
	results []Result
}

func (r *recorded) add(res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

func (r *recorded) find(match func(Result) bool) (Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, res := range r.results {
		if match(res) {
			return res, true
		}
	}
	return Result{}, false
}

func setup(t *testing.T) (*manager.Manager, config.PathsConfig) {
	t.Helper()
	paths := config.GetDefaultConfig().Paths
	paths.OssecPath = t.TempDir()

	write(t, paths.OssecConfPath(), `<ossec_config>
  <cluster><name>a</name></cluster>
  <cluster><name>b</name></cluster>
</ossec_config>`)
	write(t, filepath.Join(paths.SharedPath(), "default", manager.AgentConfFileName),
		`<agent_config><syscheck><frequency>60</frequency></syscheck></agent_config>`)
	require.NoError(t, os.MkdirAll(filepath.Join(paths.SharedPath(), "empty"), 0o755))

	return manager.New(paths, nil), paths
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o640))
}

func TestWatcher_Sync(t *testing.T) {
	m, _ := setup(t)
	storage := config.NewStorageWithPath(t.TempDir())
	var got recorded

	w := New(m, Options{Storage: storage, OnResult: got.add})
	w.Sync()

	require.Len(t, got.results, 2)
	mgr := got.results[0]
	assert.Equal(t, TargetManager, mgr.Change.Target)
	assert.NoError(t, mgr.Err)
	assert.Equal(t, 1, mgr.Sections)
	require.Len(t, mgr.Warnings, 1)
	assert.Equal(t, "cluster", mgr.Warnings[0].Section)

	group := got.results[1]
	assert.Equal(t, TargetGroup, group.Change.Target)
	assert.Equal(t, "default", group.Change.Group)
	assert.Equal(t, 1, group.Sections)

	names, err := storage.List(config.SnapshotKind)
	require.NoError(t, err)
	assert.Equal(t, []string{"group-default", "ossec-conf"}, names)

	data, err := storage.Load(config.SnapshotKind, "ossec-conf")
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: b")
}

func TestWatcher_DeleteDropsSnapshot(t *testing.T) {
	m, paths := setup(t)
	storage := config.NewStorageWithPath(t.TempDir())
	w := New(m, Options{Storage: storage})
	w.Sync()

	res := w.process(Change{Target: TargetGroup, Group: "default", Path: filepath.Join(paths.SharedPath(), "default", manager.AgentConfFileName), Operation: OperationDelete})
	assert.NoError(t, res.Err)

	names, err := storage.List(config.SnapshotKind)
	require.NoError(t, err)
	assert.Equal(t, []string{"ossec-conf"}, names)
}

func TestWatcher_ReportsErrors(t *testing.T) {
	m, paths := setup(t)
	write(t, paths.OssecConfPath(), `<ossec_config><global>`)

	res := New(m, Options{}).process(Change{Target: TargetManager, Path: paths.OssecConfPath(), Operation: OperationUpdate})
	assert.Error(t, res.Err)
}

func TestWatcher_DetectsChanges(t *testing.T) {
	m, paths := setup(t)
	var got recorded

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	w := New(m, Options{Debounce: 50 * time.Millisecond, OnResult: got.add})
	require.NoError(t, w.Start(ctx))
	go func() { _ = w.Run(ctx) }()

	write(t, filepath.Join(paths.SharedPath(), "empty", manager.AgentConfFileName),
		`<agent_config os="Linux"><localfile><location>/var/log/x</location></localfile></agent_config>`)

	require.Eventually(t, func() bool {
		_, ok := got.find(func(r Result) bool { return r.Change.Group == "empty" })
		return ok
	}, 3*time.Second, 20*time.Millisecond)

	res, _ := got.find(func(r Result) bool { return r.Change.Group == "empty" })
	assert.NoError(t, res.Err)
	assert.Equal(t, 1, res.Sections)

	write(t, paths.OssecConfPath(), `<ossec_config><global><email_notification>no</email_notification></global></ossec_config>`)
	require.Eventually(t, func() bool {
		_, ok := got.find(func(r Result) bool {
			return r.Change.Target == TargetManager && r.Change.Operation != OperationDelete && len(r.Warnings) == 0
		})
		return ok
	}, 3*time.Second, 20*time.Millisecond)
}

func TestDetector_Classify(t *testing.T) {
	d := NewDetector("/var/ossec/etc/ossec.conf", "/var/ossec/etc/shared", "agent.conf", 0)

	tests := []struct {
		path   string
		ok     bool
		target Target
		group  string
	}{
		{"/var/ossec/etc/ossec.conf", true, TargetManager, ""},
		{"/var/ossec/etc/shared/default/agent.conf", true, TargetGroup, "default"},
		{"/var/ossec/etc/shared/default/rootkit_files.txt", false, "", ""},
		{"/var/ossec/etc/shared/agent.conf", false, "", ""},
		{"/var/ossec/etc/internal_options.conf", false, "", ""},
		{"/var/ossec/etc/shared/a/b/agent.conf", false, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			c, ok := d.classify(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.target, c.Target)
			assert.Equal(t, tt.group, c.Group)
		})
	}
}

func TestMergeOperations(t *testing.T) {
	assert.Equal(t, OperationCreate, mergeOperations(OperationCreate, OperationUpdate))
	assert.Equal(t, OperationDelete, mergeOperations(OperationCreate, OperationDelete))
	assert.Equal(t, OperationUpdate, mergeOperations(OperationDelete, OperationCreate))
	assert.Equal(t, OperationDelete, mergeOperations(OperationUpdate, OperationDelete))
}

func TestDetector_StartStop(t *testing.T) {
	_, paths := setup(t)
	d := NewDetector(paths.OssecConfPath(), paths.SharedPath(), manager.AgentConfFileName, 10*time.Millisecond)

	require.NoError(t, d.Start(context.Background(), make(chan Change, 1)))
	assert.NoError(t, d.Stop())
	assert.NoError(t, d.Stop())
}
