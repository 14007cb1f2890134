package manager

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/wazuh/ossec-hids/internal/conferr"
	"github.com/wazuh/ossec-hids/internal/xmlsource"
	"github.com/wazuh/ossec-hids/pkg/logging"
)

// UploadSucceeded is returned by a successful upload.
const UploadSucceeded = "Agent configuration was updated successfully"

// UploadGroupFile replaces a group file. Only agent.conf can be uploaded.
func (m *Manager) UploadGroupFile(ctx context.Context, group, content, filename string) (string, error) {
	if len(content) == 0 {
		return "", conferr.New(conferr.CodeEmptyFile, conferr.KindInvalidArgument, "")
	}
	if filename != AgentConfFileName {
		return "", conferr.New(conferr.CodeOnlyAgentConf, conferr.KindInvalidArgument, filename)
	}
	return m.UploadGroupConfiguration(ctx, group, content)
}

// UploadGroupConfiguration validates content and installs it as the group's agent.conf.
// The new text is re-indented and staged in the tmp directory, checked for XML syntax,
// checked by the validator and only then moved into place.
func (m *Manager) UploadGroupConfiguration(ctx context.Context, group, content string) (string, error) {
	msg, err := m.uploadGroupConfiguration(ctx, group, content)
	m.observeUpload(err)
	return msg, err
}

func (m *Manager) uploadGroupConfiguration(ctx context.Context, group, content string) (string, error) {
	if err := m.requireGroup(group); err != nil {
		return "", err
	}

	m.uploadMu.Lock()
	defer m.uploadMu.Unlock()

	pretty, err := xmlsource.Pretty(content)
	if err != nil {
		return "", err
	}

	tmpPath := filepath.Join(m.paths.TmpPath(), fmt.Sprintf("api_tmp_file_%s.xml", uuid.NewString()))
	if err := os.WriteFile(tmpPath, []byte(pretty), 0o640); err != nil {
		return "", conferr.Wrap(conferr.CodeXMLSyntax, conferr.KindIO, err)
	}
	staged := true
	defer func() {
		if staged {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := xmlsource.LoadFile(tmpPath); err != nil {
		return "", conferr.Wrap(conferr.CodeXMLSyntax, conferr.KindMalformedSource, err)
	}

	if m.validator != nil {
		if err := m.validator.Validate(ctx, tmpPath); err != nil {
			return "", err
		}
	}

	target := filepath.Join(m.paths.SharedPath(), group, AgentConfFileName)
	if err := moveFile(tmpPath, target); err != nil {
		return "", conferr.Wrap(conferr.CodeMoveFailed, conferr.KindIO, err)
	}
	staged = false

	logging.Info(subsystem, "Updated agent configuration of group %s", group)
	return UploadSucceeded, nil
}

// moveFile renames src to dst, copying when they are on different filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := dst + ".tmp"
	out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o640)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Remove(src)
}

func (m *Manager) observeUpload(err error) {
	if m.recorder == nil {
		return
	}
	switch {
	case err == nil:
		m.recorder.ObserveUpload("ok")
	case conferr.IsKind(err, conferr.KindValidationRejected), conferr.CodeOf(err) == conferr.CodeXMLSyntax:
		m.recorder.ObserveUpload("rejected")
	default:
		m.recorder.ObserveUpload("error")
	}
}
