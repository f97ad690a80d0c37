package execx

import "context"

// MockExecutor is a scriptable command executor for tests.
type MockExecutor struct {
	LookPathFunc     func(file string) (string, error)
	RunFunc          func(name string, args ...string) (string, error)
	RunWithInputFunc func(input string, name string, args ...string) error
	FileExistsFunc   func(path string) bool

	// Commands records every Run/RunContext invocation as name followed by args.
	Commands [][]string
}

func (m *MockExecutor) LookPath(file string) (string, error) {
	if m.LookPathFunc != nil {
		return m.LookPathFunc(file)
	}
	return "/usr/bin/" + file, nil
}

func (m *MockExecutor) Run(name string, args ...string) (string, error) {
	m.Commands = append(m.Commands, append([]string{name}, args...))
	if m.RunFunc != nil {
		return m.RunFunc(name, args...)
	}
	return "", nil
}

func (m *MockExecutor) RunContext(_ context.Context, name string, args ...string) (string, error) {
	return m.Run(name, args...)
}

func (m *MockExecutor) RunWithInput(_ context.Context, input string, name string, args ...string) error {
	m.Commands = append(m.Commands, append([]string{name}, args...))
	if m.RunWithInputFunc != nil {
		return m.RunWithInputFunc(input, name, args...)
	}
	return nil
}

func (m *MockExecutor) FileExists(path string) bool {
	if m.FileExistsFunc != nil {
		return m.FileExistsFunc(path)
	}
	return true
}
