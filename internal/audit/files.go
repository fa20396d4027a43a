package audit

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

const (
	logFileName  = "task.log"
	pcapFileName = "capture.pcap"
	snapLen      = 65536
)

var taskIDPattern = regexp.MustCompile(`^[0-9]{14}(-[0-9]+)?$`)

// ValidTaskID reports whether id has the YYYYMMDDhhmmss[-N] form.
func ValidTaskID(id string) bool {
	return taskIDPattern.MatchString(id)
}

// Details is the on-disk content of a session.
type Details struct {
	TaskID     string   `json:"task_id"`
	LogContent string   `json:"log_content"`
	PcapFiles  []string `json:"pcap_files"`
}

// FileSink writes each session to <dir>/<task_id>/: a task.log with one
// line per match and a capture.pcap holding each query followed by its
// response.
type FileSink struct {
	dir string

	mu   sync.Mutex
	cur  string
	log  *os.File
	pcap *os.File
	w    *pcapgo.Writer
}

// NewFileSink creates the sink rooted at dir.
func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

// Dir returns the root directory.
func (f *FileSink) Dir() string { return f.dir }

func (f *FileSink) Begin(s Session) error {
	if !ValidTaskID(s.TaskID) {
		return fmt.Errorf("audit: invalid task id %q", s.TaskID)
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("audit: create log dir: %w", err)
	}
	taskDir := filepath.Join(f.dir, s.TaskID)
	if err := os.Mkdir(taskDir, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrSessionExists, s.TaskID)
		}
		return fmt.Errorf("audit: create session dir: %w", err)
	}

	logFile, err := os.OpenFile(filepath.Join(taskDir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("audit: open log: %w", err)
	}
	pcapFile, err := os.Create(filepath.Join(taskDir, pcapFileName))
	if err != nil {
		logFile.Close()
		return fmt.Errorf("audit: create pcap: %w", err)
	}
	w := pcapgo.NewWriter(pcapFile)
	if err := w.WriteFileHeader(snapLen, layers.LinkTypeEthernet); err != nil {
		logFile.Close()
		pcapFile.Close()
		return fmt.Errorf("audit: write pcap header: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeLocked()
	f.cur, f.log, f.pcap, f.w = s.TaskID, logFile, pcapFile, w
	return nil
}

// FormatMatch renders the task.log line for e.
func FormatMatch(e Event) string {
	return fmt.Sprintf("%s - Rule '%s' triggered by query for '%s'.\n",
		e.At.Format(time.DateTime), e.RuleName, strings.TrimRight(e.QName, "."))
}

func (f *FileSink) RecordMatch(e Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cur == "" || f.cur != e.TaskID {
		return fmt.Errorf("%w: %s is not open", ErrSessionNotFound, e.TaskID)
	}
	if _, err := f.log.WriteString(FormatMatch(e)); err != nil {
		return fmt.Errorf("audit: write log: %w", err)
	}
	for _, data := range [][]byte{e.Query, e.Response} {
		if len(data) == 0 {
			continue
		}
		ci := gopacket.CaptureInfo{Timestamp: e.At, CaptureLength: len(data), Length: len(data)}
		if err := f.w.WritePacket(ci, data); err != nil {
			return fmt.Errorf("audit: write pcap: %w", err)
		}
	}
	return nil
}

func (f *FileSink) End(s Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cur != s.TaskID {
		return nil
	}
	return f.closeLocked()
}

func (f *FileSink) closeLocked() error {
	if f.cur == "" {
		return nil
	}
	err := errors.Join(f.log.Close(), f.pcap.Close())
	f.cur, f.log, f.pcap, f.w = "", nil, nil, nil
	return err
}

// List returns the task ids on disk, newest first.
func (f *FileSink) List() ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("audit: list sessions: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() && ValidTaskID(e.Name()) {
			ids = append(ids, e.Name())
		}
	}
	slices.Sort(ids)
	slices.Reverse(ids)
	return ids, nil
}

// Details returns the log content and pcap file names of a session.
func (f *FileSink) Details(taskID string) (Details, error) {
	taskDir, err := f.taskDir(taskID)
	if err != nil {
		return Details{}, err
	}
	d := Details{TaskID: taskID, PcapFiles: []string{}}
	if b, err := os.ReadFile(filepath.Join(taskDir, logFileName)); err == nil {
		d.LogContent = string(b)
	}
	entries, err := os.ReadDir(taskDir)
	if err != nil {
		return Details{}, fmt.Errorf("audit: read session: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".pcap") {
			d.PcapFiles = append(d.PcapFiles, e.Name())
		}
	}
	return d, nil
}

// PcapPath returns the capture file of a session.
func (f *FileSink) PcapPath(taskID string) (string, error) {
	taskDir, err := f.taskDir(taskID)
	if err != nil {
		return "", err
	}
	p := filepath.Join(taskDir, pcapFileName)
	if _, err := os.Stat(p); err != nil {
		return "", fmt.Errorf("%w: %s has no capture", ErrSessionNotFound, taskID)
	}
	return p, nil
}

// Abort closes and removes the session directory created by the last
// Begin. Other task ids are left alone.
func (f *FileSink) Abort(taskID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cur == "" || f.cur != taskID {
		return nil
	}
	closeErr := f.closeLocked()
	return errors.Join(closeErr, os.RemoveAll(filepath.Join(f.dir, taskID)))
}

// Delete removes a session directory. The open session cannot be deleted.
func (f *FileSink) Delete(taskID string) error {
	taskDir, err := f.taskDir(taskID)
	if err != nil {
		return err
	}
	f.mu.Lock()
	open := f.cur == taskID
	f.mu.Unlock()
	if open {
		return fmt.Errorf("%w: %s", ErrSessionActive, taskID)
	}
	return os.RemoveAll(taskDir)
}

func (f *FileSink) taskDir(taskID string) (string, error) {
	if !ValidTaskID(taskID) {
		return "", fmt.Errorf("%w: %s", ErrSessionNotFound, taskID)
	}
	p := filepath.Join(f.dir, taskID)
	st, err := os.Stat(p)
	if err != nil || !st.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrSessionNotFound, taskID)
	}
	return p, nil
}
