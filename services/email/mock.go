package emailsvc

import (
	"sync"

	"github.com/ajuagency/collegia/core"
)

// ServiceMock captures sent messages for tests. When Err is set, SendMessage
// fails with it and nothing is recorded, simulating a transport failure.
type ServiceMock struct {
	mu sync.Mutex

	SentMessages []core.EmailMessage
	Err          error
}

var _ core.EmailService = (*ServiceMock)(nil)

func NewServiceMock() *ServiceMock {
	return &ServiceMock{}
}

func (svc *ServiceMock) SendMessage(msg *core.EmailMessage) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.Err != nil {
		return svc.Err
	}
	svc.SentMessages = append(svc.SentMessages, *msg)
	return nil
}

func (svc *ServiceMock) Reset() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.SentMessages = nil
	svc.Err = nil
}
