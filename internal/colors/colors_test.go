package colors

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockLogger struct {
	mock.Mock
}

func (m *mockLogger) Debug(msg string, args ...any) { m.Called(append([]any{msg}, args...)...) }
func (m *mockLogger) Info(msg string, args ...any)  { m.Called(append([]any{msg}, args...)...) }
func (m *mockLogger) Warn(msg string, args ...any)  { m.Called(append([]any{msg}, args...)...) }
func (m *mockLogger) Error(msg string, args ...any) { m.Called(append([]any{msg}, args...)...) }

func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	SetOutput(&out, &errOut)
	t.Cleanup(func() {
		SetOutput(nil, nil)
		SetLogger(nil)
		SetDebug(false)
	})
	return &out, &errOut
}

func TestOutputStreamsAndColors(t *testing.T) {
	tests := []struct {
		name     string
		print    func(...string)
		toStderr bool
		want     string
	}{
		{name: "error", print: Error, toStderr: true, want: Red + "Error:" + Reset + " went wrong\n"},
		{name: "warning", print: Warning, toStderr: true, want: Yellow + "Warning:" + Reset + " went wrong\n"},
		{name: "success", print: Success, want: Green + "✓" + Reset + " went wrong\n"},
		{name: "info", print: Info, want: Blue + "went wrong" + Reset + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut := captureOutput(t)

			tt.print("went", "wrong")

			if tt.toStderr {
				assert.Equal(t, tt.want, errOut.String())
				assert.Empty(t, out.String())
				return
			}
			assert.Equal(t, tt.want, out.String())
			assert.Empty(t, errOut.String())
		})
	}
}

func TestDebugRequiresDebugMode(t *testing.T) {
	_, errOut := captureOutput(t)

	Debug("hidden")
	assert.Empty(t, errOut.String())

	SetDebug(true)
	Debug("shown")
	assert.Contains(t, errOut.String(), "Debug:")
	assert.Contains(t, errOut.String(), "shown")
}

func TestMessagesAreMirroredToLogger(t *testing.T) {
	captureOutput(t)
	l := new(mockLogger)
	l.On("Error", "boom").Once()
	l.On("Info", "done", "type", "success").Once()
	SetLogger(l)

	Error("boom")
	Success("done")

	l.AssertExpectations(t)
}
