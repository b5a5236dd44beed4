package email

// Provider - транзакционные письма платформы
type Provider interface {
	SendWelcome(to, name string) error
	SendCompletionReviewed(to, name, taskTitle string, approved bool, reason string) error
	SendPayoutProcessed(to, name, amount string) error
	SendAccountSuspended(to, name, reason string) error
}

// Config - настройки SMTP
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}
