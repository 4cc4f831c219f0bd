package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worship-tools/slidecast/internal/adapters/secondary/store"
	"github.com/worship-tools/slidecast/internal/domain/entities"
	"github.com/worship-tools/slidecast/internal/domain/services"
)

// offlinePublisher satisfies the publisher port without a server; the
// command loop treats a disconnected publisher as a silent no-op.
type offlinePublisher struct{}

func (offlinePublisher) Connect(context.Context) error { return nil }
func (offlinePublisher) Send(entities.Slide) error     { return nil }
func (offlinePublisher) Connected() bool               { return false }
func (offlinePublisher) Close() error                  { return nil }

// stubRepository is the minimal repository the clear command reaches.
type stubRepository struct{}

func (stubRepository) Load() (entities.SlideList, error)    { return nil, nil }
func (stubRepository) Save(entities.SlideList) error        { return nil }
func (stubRepository) Clear() error                         { return nil }
func (stubRepository) BackupIfClean() (bool, error)         { return false, nil }
func (stubRepository) Restore() (entities.SlideList, error) { return nil, nil }
func (stubRepository) HasBackup() bool                      { return false }
func (stubRepository) DeleteBackup() error                  { return nil }

func newLoopFixture(t *testing.T) (*cobra.Command, *services.Driver, *services.Coordinator, *store.VerseFile, *bytes.Buffer) {
	t.Helper()

	driver := services.NewDriver(offlinePublisher{}, nil)
	driver.ReplaceList(entities.SlideList{
		{Style: entities.StyleBlank},
		{Style: entities.StyleLyrics, Caption: "Amazing Grace", Headline: "verse one"},
		{Style: entities.StyleLyrics, Caption: "Amazing Grace", Headline: "verse two"},
	}, 0)

	coord := services.NewCoordinator(driver, stubRepository{}, store.NewVerseFile(filepath.Join(t.TempDir(), "vb.txt")), nil)
	verse := store.NewVerseFile(filepath.Join(t.TempDir(), "verse_output.txt"))

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	return cmd, driver, coord, verse, &out
}

func TestCommandLoop_Navigation(t *testing.T) {
	cmd, driver, coord, verse, out := newLoopFixture(t)
	cmd.SetIn(strings.NewReader("next\nnext\nprev\nstatus\nquit\n"))

	require.NoError(t, commandLoop(context.Background(), cmd, driver, coord, verse))

	assert.Equal(t, 1, driver.Index())
	assert.Contains(t, out.String(), "mode=normal slide=2/3")
}

func TestCommandLoop_EmergencyWritesBuffer(t *testing.T) {
	cmd, driver, coord, verse, out := newLoopFixture(t)
	cmd.SetIn(strings.NewReader("emergency 요한복음 3:16\nquit\n"))

	require.NoError(t, commandLoop(context.Background(), cmd, driver, coord, verse))

	content, err := verse.Read()
	require.NoError(t, err)
	assert.Equal(t, "요한복음 3:16", content)
	assert.Contains(t, out.String(), "emergency caption queued")
}

func TestCommandLoop_EOFExits(t *testing.T) {
	cmd, driver, coord, verse, _ := newLoopFixture(t)
	cmd.SetIn(strings.NewReader("next\n"))

	done := make(chan error, 1)
	go func() { done <- commandLoop(context.Background(), cmd, driver, coord, verse) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not exit at end of input")
	}
}

func TestCommandLoop_ContextCancelReleasesReader(t *testing.T) {
	cmd, driver, coord, verse, _ := newLoopFixture(t)

	// a reader that never delivers a line, like an idle terminal
	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()
	cmd.SetIn(pr)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- commandLoop(ctx, cmd, driver, coord, verse) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not exit on cancellation")
	}

	// a line arriving after shutdown must not strand the scanner goroutine
	go func() { _, _ = pw.Write([]byte("next\n")) }()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, driver.Index())
}
