package app

// MockEmailProvider используется для тестов и локальной разработки.
type MockEmailProvider struct{}

func (m *MockEmailProvider) SendWelcome(to, name string) error { return nil }
func (m *MockEmailProvider) SendCompletionReviewed(to, name, taskTitle string, approved bool, reason string) error {
	return nil
}
func (m *MockEmailProvider) SendPayoutProcessed(to, name, amount string) error  { return nil }
func (m *MockEmailProvider) SendAccountSuspended(to, name, reason string) error { return nil }
