package services_test

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pratty2304/MedConnect/internal/models"
)

type mockUserRepo struct {
	getByIDFunc       func(id uuid.UUID) (*models.User, error)
	getByEmailFunc    func(email string) (*models.User, error)
	createFunc        func(user *models.User) error
	updateFunc        func(user *models.User) error
	deleteFunc        func(id uuid.UUID) error
	listByRoleFunc    func(role models.UserRole) ([]models.User, error)
	existsByEmailFunc func(email string) (bool, error)
}

func (m *mockUserRepo) GetByID(id uuid.UUID) (*models.User, error) {
	if m.getByIDFunc == nil {
		return nil, errors.New("not implemented")
	}
	return m.getByIDFunc(id)
}

func (m *mockUserRepo) GetByEmail(email string) (*models.User, error) {
	if m.getByEmailFunc == nil {
		return nil, errors.New("not implemented")
	}
	return m.getByEmailFunc(email)
}

func (m *mockUserRepo) Create(user *models.User) error {
	if m.createFunc == nil {
		return errors.New("not implemented")
	}
	return m.createFunc(user)
}

func (m *mockUserRepo) Update(user *models.User) error {
	if m.updateFunc == nil {
		return errors.New("not implemented")
	}
	return m.updateFunc(user)
}

func (m *mockUserRepo) Delete(id uuid.UUID) error {
	if m.deleteFunc == nil {
		return errors.New("not implemented")
	}
	return m.deleteFunc(id)
}

func (m *mockUserRepo) ListByRole(role models.UserRole) ([]models.User, error) {
	if m.listByRoleFunc == nil {
		return nil, errors.New("not implemented")
	}
	return m.listByRoleFunc(role)
}

func (m *mockUserRepo) ExistsByEmail(email string) (bool, error) {
	if m.existsByEmailFunc == nil {
		return false, errors.New("not implemented")
	}
	return m.existsByEmailFunc(email)
}

type mockLoginSessionRepo struct {
	sessions map[uuid.UUID]*models.LoginSession
}

func newMockLoginSessionRepo() *mockLoginSessionRepo {
	return &mockLoginSessionRepo{sessions: make(map[uuid.UUID]*models.LoginSession)}
}

func (m *mockLoginSessionRepo) Create(userID uuid.UUID, ttl time.Duration) (*models.LoginSession, error) {
	now := time.Now().UTC()
	session := &models.LoginSession{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	m.sessions[session.ID] = session
	return session, nil
}

func (m *mockLoginSessionRepo) GetActiveByID(id uuid.UUID, now time.Time) (*models.LoginSession, error) {
	session, ok := m.sessions[id]
	if !ok || session.ConsumedAt != nil || !session.ExpiresAt.After(now) {
		return nil, gorm.ErrRecordNotFound
	}
	return session, nil
}

func (m *mockLoginSessionRepo) IncrementFailedAttempts(id uuid.UUID) error {
	if session, ok := m.sessions[id]; ok {
		session.FailedAttempts++
	}
	return nil
}

func (m *mockLoginSessionRepo) MarkConsumed(id uuid.UUID, consumedAt time.Time) error {
	if session, ok := m.sessions[id]; ok {
		session.ConsumedAt = &consumedAt
	}
	return nil
}

type mockAppointmentRepo struct {
	appointments map[uuid.UUID]*models.Appointment
}

func newMockAppointmentRepo() *mockAppointmentRepo {
	return &mockAppointmentRepo{appointments: make(map[uuid.UUID]*models.Appointment)}
}

func (m *mockAppointmentRepo) GetByID(id uuid.UUID) (*models.Appointment, error) {
	if appointment, ok := m.appointments[id]; ok {
		copied := *appointment
		return &copied, nil
	}
	return nil, nil
}

func (m *mockAppointmentRepo) Create(appointment *models.Appointment) error {
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	copied := *appointment
	m.appointments[appointment.ID] = &copied
	return nil
}

func (m *mockAppointmentRepo) Update(appointment *models.Appointment) error {
	copied := *appointment
	m.appointments[appointment.ID] = &copied
	return nil
}

func (m *mockAppointmentRepo) ListForUser(userID uuid.UUID) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, appointment := range m.appointments {
		if appointment.Involves(userID) {
			out = append(out, *appointment)
		}
	}
	return out, nil
}

type mockMessageRepo struct {
	messages map[uuid.UUID]*models.Message
}

func newMockMessageRepo() *mockMessageRepo {
	return &mockMessageRepo{messages: make(map[uuid.UUID]*models.Message)}
}

func (m *mockMessageRepo) GetByID(id uuid.UUID) (*models.Message, error) {
	if message, ok := m.messages[id]; ok {
		copied := *message
		return &copied, nil
	}
	return nil, nil
}

func (m *mockMessageRepo) Create(message *models.Message) error {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	copied := *message
	m.messages[message.ID] = &copied
	return nil
}

func (m *mockMessageRepo) MarkRead(id uuid.UUID) error {
	if message, ok := m.messages[id]; ok {
		message.Read = true
	}
	return nil
}

func (m *mockMessageRepo) ListInbox(userID uuid.UUID) ([]models.Message, error) {
	var out []models.Message
	for _, message := range m.messages {
		if message.RecipientID == userID {
			out = append(out, *message)
		}
	}
	return out, nil
}
