package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/worship-tools/slidecast/internal/domain/entities"
	"github.com/worship-tools/slidecast/internal/domain/ports"
)

// Mock implementations
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Connect(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPublisher) Send(slide entities.Slide) error {
	args := m.Called(slide)
	return args.Error(0)
}

func (m *MockPublisher) Connected() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Load() (entities.SlideList, error) {
	args := m.Called()
	if list := args.Get(0); list != nil {
		return list.(entities.SlideList), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) Save(list entities.SlideList) error {
	args := m.Called(list)
	return args.Error(0)
}

func (m *MockRepository) Clear() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockRepository) BackupIfClean() (bool, error) {
	args := m.Called()
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) Restore() (entities.SlideList, error) {
	args := m.Called()
	if list := args.Get(0); list != nil {
		return list.(entities.SlideList), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) HasBackup() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockRepository) DeleteBackup() error {
	args := m.Called()
	return args.Error(0)
}

type MockVerseBuffer struct {
	mock.Mock
}

func (m *MockVerseBuffer) Read() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockVerseBuffer) Clear() error {
	args := m.Called()
	return args.Error(0)
}

type MockVerseWatcher struct {
	mock.Mock
}

func (m *MockVerseWatcher) Watch(ctx context.Context, path string) (<-chan ports.VerseEvent, error) {
	args := m.Called(ctx, path)
	if ch := args.Get(0); ch != nil {
		return ch.(<-chan ports.VerseEvent), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVerseWatcher) Stop() error {
	args := m.Called()
	return args.Error(0)
}

type MockComposer struct {
	mock.Mock
}

func (m *MockComposer) Compose(content string) entities.SlideList {
	args := m.Called(content)
	if list := args.Get(0); list != nil {
		return list.(entities.SlideList)
	}
	return nil
}

// connectedPublisher returns a publisher mock that accepts any send
func connectedPublisher() *MockPublisher {
	pub := new(MockPublisher)
	pub.On("Connected").Return(true)
	pub.On("Send", mock.Anything).Return(nil)
	return pub
}

// disconnectedPublisher returns a publisher mock with no connection
func disconnectedPublisher() *MockPublisher {
	pub := new(MockPublisher)
	pub.On("Connected").Return(false)
	return pub
}
