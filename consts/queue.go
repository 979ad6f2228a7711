package consts

const (
	QueueNameEmail = "transactional_email_queue"

	JobTypeTicketEmail = "ticket_email"
)
