package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/osahq/conduct/internal/app/events"
	"github.com/osahq/conduct/internal/app/models"
	"github.com/osahq/conduct/internal/app/models/dto"
	"github.com/osahq/conduct/internal/app/policy"
	"github.com/osahq/conduct/internal/app/repositories"
	"github.com/osahq/conduct/internal/pkg/apperrors"
	"github.com/osahq/conduct/internal/pkg/notify"
)

// fakeStore is an in-memory implementation of every store interface the
// services depend on. It mirrors the guard semantics of the Postgres
// repositories: the same sentinel errors, the same conditional updates.
type fakeStore struct {
	now time.Time // timestamp stamped onto created records

	users      map[int64]*models.User
	students   map[int64]*models.Student
	violations map[int64]*models.Violation
	types      map[int64]*models.ViolationType
	alerts     map[int64]*models.StaffAlert
	letters    map[int64]*models.ApologyLetter
	messages   map[int64]*models.Message

	nextID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		now:        time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC),
		users:      map[int64]*models.User{},
		students:   map[int64]*models.Student{},
		violations: map[int64]*models.Violation{},
		types:      map[int64]*models.ViolationType{},
		alerts:     map[int64]*models.StaffAlert{},
		letters:    map[int64]*models.ApologyLetter{},
		messages:   map[int64]*models.Message{},
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

// --- seeding helpers ---

func (f *fakeStore) addUser(role models.Role, firstName, lastName string) *models.User {
	user := &models.User{
		ID:        f.id(),
		Email:     fmt.Sprintf("%s.%s@test.edu.ph", strings.ToLower(firstName), strings.ToLower(lastName)),
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
		IsActive:  true,
		CreatedAt: f.now,
		UpdatedAt: f.now,
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeStore) addStudent(number string) *models.Student {
	user := f.addUser(models.RoleStudent, "Student", number)
	assignedAt := f.now
	student := &models.Student{
		ID:                  f.id(),
		UserID:              user.ID,
		StudentID:           number,
		Program:             "BS Computer Science",
		YearLevel:           2,
		Department:          "CCS",
		EnrollmentStatus:    models.EnrollmentActive,
		YearLevelAssignedAt: &assignedAt,
		User:                user,
	}
	f.students[student.ID] = student
	return student
}

func (f *fakeStore) addViolation(studentID int64, severity models.ViolationSeverity, status models.ViolationStatus, incidentAt time.Time) *models.Violation {
	violation := &models.Violation{
		ID:          f.id(),
		StudentID:   studentID,
		IncidentAt:  incidentAt,
		Severity:    severity,
		Description: fmt.Sprintf("%s violation", severity),
		Status:      status,
		CreatedAt:   incidentAt,
		UpdatedAt:   incidentAt,
	}
	f.violations[violation.ID] = violation
	return violation
}

func (f *fakeStore) addViolationType(code string, severity models.ViolationSeverity, active bool) *models.ViolationType {
	vt := &models.ViolationType{
		ID:              f.id(),
		Code:            code,
		Name:            code + " offense",
		Category:        "Conduct",
		DefaultSeverity: severity,
		IsActive:        active,
		CreatedAt:       f.now,
	}
	f.types[vt.ID] = vt
	return vt
}

func (f *fakeStore) addOpenAlert(studentID int64, effective int) *models.StaffAlert {
	alert := &models.StaffAlert{
		ID:                  f.id(),
		StudentID:           studentID,
		EffectiveMajorCount: effective,
		MeetingStatus:       models.MeetingNotScheduled,
		CreatedAt:           f.now,
	}
	f.alerts[alert.ID] = alert
	return alert
}

func (f *fakeStore) addMessage(senderID, recipientID int64, subject string) *models.Message {
	message := &models.Message{
		ID:          f.id(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Subject:     subject,
		Body:        "body of " + subject,
		CreatedAt:   f.now,
	}
	f.messages[message.ID] = message
	return message
}

func fakePagination(total, page, size int) dto.PaginationInfo {
	return dto.PaginationInfo{CurrentPage: page, TotalPages: 1, PageSize: size, TotalItems: int64(total)}
}

// --- UserStore ---

func (f *fakeStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeStore) ListActiveUsersByRole(_ context.Context, roles ...models.Role) ([]*models.User, error) {
	users := []*models.User{}
	for _, user := range f.users {
		if !user.IsActive {
			continue
		}
		for _, role := range roles {
			if user.Role == role {
				users = append(users, user)
				break
			}
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// --- StudentStore ---

func (f *fakeStore) CreateStudentWithUser(_ context.Context, user *models.User, student *models.Student) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	for _, existing := range f.students {
		if existing.StudentID == student.StudentID {
			return apperrors.ErrStudentIDAlreadyExists
		}
	}

	user.ID = f.id()
	user.CreatedAt = f.now
	user.UpdatedAt = f.now
	f.users[user.ID] = user

	student.ID = f.id()
	student.UserID = user.ID
	student.User = user
	f.students[student.ID] = student
	return nil
}

func (f *fakeStore) GetStudentByID(_ context.Context, id int64) (*models.Student, error) {
	student, ok := f.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return student, nil
}

func (f *fakeStore) ListStudents(_ context.Context, params repositories.ListStudentsParams) ([]*models.Student, dto.PaginationInfo, error) {
	students := []*models.Student{}
	for _, student := range f.students {
		if params.Department != "" && student.Department != params.Department {
			continue
		}
		if params.YearLevel != nil && student.YearLevel != *params.YearLevel {
			continue
		}
		if params.EnrollmentStatus != "" && string(student.EnrollmentStatus) != params.EnrollmentStatus {
			continue
		}
		if params.Search != "" && !strings.Contains(student.StudentID, params.Search) {
			continue
		}
		students = append(students, student)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students, fakePagination(len(students), params.Page, params.Size), nil
}

func (f *fakeStore) UpdateStudent(_ context.Context, student *models.Student) error {
	if _, ok := f.students[student.ID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	f.students[student.ID] = student
	return nil
}

func (f *fakeStore) GetStudentStats(_ context.Context, studentID int64) (*models.StudentStats, error) {
	stats := &models.StudentStats{}
	for _, v := range f.violations {
		if v.StudentID != studentID {
			continue
		}
		stats.Total++
		switch {
		case v.Status.Pending():
			stats.Pending++
		case v.Status == models.ViolationResolved:
			stats.Resolved++
		case v.Status == models.ViolationDismissed:
			stats.Dismissed++
		}
		if stats.LatestIncidentAt == nil || v.IncidentAt.After(*stats.LatestIncidentAt) {
			at := v.IncidentAt
			stats.LatestIncidentAt = &at
		}
	}
	return stats, nil
}

func (f *fakeStore) ListPromotable(_ context.Context, cutoff time.Time) ([]*models.Student, error) {
	students := []*models.Student{}
	for _, student := range f.students {
		if student.EnrollmentStatus != models.EnrollmentActive {
			continue
		}
		if student.YearLevelAssignedAt == nil || student.YearLevelAssignedAt.After(cutoff) {
			continue
		}
		students = append(students, student)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students, nil
}

func (f *fakeStore) PromoteStudent(_ context.Context, id int64, yearLevel int, assignedAt time.Time) error {
	student, ok := f.students[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	student.YearLevel = yearLevel
	at := assignedAt
	student.YearLevelAssignedAt = &at
	return nil
}

func (f *fakeStore) GraduateStudent(_ context.Context, id int64) error {
	student, ok := f.students[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	student.EnrollmentStatus = models.EnrollmentGraduated
	return nil
}

// --- ViolationStore ---

func (f *fakeStore) CreateViolation(_ context.Context, violation *models.Violation) (int64, error) {
	violation.ID = f.id()
	violation.CreatedAt = f.now
	violation.UpdatedAt = f.now
	f.violations[violation.ID] = violation
	return violation.ID, nil
}

func (f *fakeStore) GetViolationByID(_ context.Context, id int64) (*models.Violation, error) {
	violation, ok := f.violations[id]
	if !ok {
		return nil, apperrors.ErrViolationNotFound
	}
	if student, ok := f.students[violation.StudentID]; ok {
		violation.Student = student
	}
	return violation, nil
}

func (f *fakeStore) ListViolations(_ context.Context, params repositories.ListViolationsParams) ([]*models.Violation, dto.PaginationInfo, error) {
	violations := []*models.Violation{}
	for _, v := range f.violations {
		if params.StudentID != nil && v.StudentID != *params.StudentID {
			continue
		}
		if params.Severity != "" && string(v.Severity) != params.Severity {
			continue
		}
		if params.Status != "" && string(v.Status) != params.Status {
			continue
		}
		violations = append(violations, v)
	}
	sort.Slice(violations, func(i, j int) bool { return violations[i].ID > violations[j].ID })
	return violations, fakePagination(len(violations), params.Page, params.Size), nil
}

func (f *fakeStore) ListByStudent(_ context.Context, studentID int64) ([]models.Violation, error) {
	violations := []models.Violation{}
	for _, v := range f.violations {
		if v.StudentID == studentID {
			violations = append(violations, *v)
		}
	}
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].IncidentAt.Equal(violations[j].IncidentAt) {
			return violations[i].ID < violations[j].ID
		}
		return violations[i].IncidentAt.Before(violations[j].IncidentAt)
	})
	return violations, nil
}

func (f *fakeStore) CountBySeverity(_ context.Context, studentID int64) (majors, minors int, err error) {
	for _, v := range f.violations {
		if v.StudentID != studentID {
			continue
		}
		switch v.Severity {
		case models.SeverityMajor:
			majors++
		case models.SeverityMinor:
			minors++
		}
	}
	return majors, minors, nil
}

func (f *fakeStore) LatestIncidentAt(_ context.Context, studentID int64) (*time.Time, error) {
	var latest *time.Time
	for _, v := range f.violations {
		if v.StudentID != studentID {
			continue
		}
		if latest == nil || v.IncidentAt.After(*latest) {
			at := v.IncidentAt
			latest = &at
		}
	}
	return latest, nil
}

func (f *fakeStore) UpdateViolationStatus(_ context.Context, id int64, status models.ViolationStatus, at time.Time) error {
	violation, ok := f.violations[id]
	if !ok {
		return apperrors.ErrViolationNotFound
	}
	violation.Status = status
	violation.UpdatedAt = at
	return nil
}

func (f *fakeStore) DeleteViolation(_ context.Context, id int64) error {
	if _, ok := f.violations[id]; !ok {
		return apperrors.ErrViolationNotFound
	}
	delete(f.violations, id)
	// Mirror the schema: alerts keep their snapshot with the reference
	// nulled, letters cascade.
	for _, alert := range f.alerts {
		if alert.TriggeredViolationID != nil && *alert.TriggeredViolationID == id {
			alert.TriggeredViolationID = nil
		}
	}
	for letterID, letter := range f.letters {
		if letter.ViolationID == id {
			delete(f.letters, letterID)
		}
	}
	return nil
}

func (f *fakeStore) ListOverdue(_ context.Context, cutoff time.Time) ([]*models.Violation, error) {
	violations := []*models.Violation{}
	for _, v := range f.violations {
		if !v.Status.Pending() || v.CreatedAt.After(cutoff) {
			continue
		}
		if student, ok := f.students[v.StudentID]; ok {
			v.Student = student
		}
		violations = append(violations, v)
	}
	sort.Slice(violations, func(i, j int) bool { return violations[i].ID < violations[j].ID })
	return violations, nil
}

// --- ViolationTypeStore ---

func (f *fakeStore) CreateViolationType(_ context.Context, vt *models.ViolationType) (int64, error) {
	for _, existing := range f.types {
		if existing.Code == vt.Code {
			return 0, apperrors.ErrViolationTypeCodeExists
		}
	}
	vt.ID = f.id()
	vt.CreatedAt = f.now
	f.types[vt.ID] = vt
	return vt.ID, nil
}

func (f *fakeStore) GetViolationTypeByID(_ context.Context, id int64) (*models.ViolationType, error) {
	vt, ok := f.types[id]
	if !ok {
		return nil, apperrors.ErrViolationTypeNotFound
	}
	return vt, nil
}

func (f *fakeStore) ListViolationTypes(_ context.Context, activeOnly bool) ([]*models.ViolationType, error) {
	types := []*models.ViolationType{}
	for _, vt := range f.types {
		if activeOnly && !vt.IsActive {
			continue
		}
		types = append(types, vt)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].ID < types[j].ID })
	return types, nil
}

func (f *fakeStore) UpdateViolationType(_ context.Context, vt *models.ViolationType) error {
	if _, ok := f.types[vt.ID]; !ok {
		return apperrors.ErrViolationTypeNotFound
	}
	f.types[vt.ID] = vt
	return nil
}

// --- AlertStore ---

func (f *fakeStore) CreateAlert(_ context.Context, alert *models.StaffAlert) (int64, error) {
	for _, existing := range f.alerts {
		if existing.StudentID == alert.StudentID && existing.Open() {
			return 0, apperrors.ErrAlertAlreadyOpen
		}
	}
	alert.ID = f.id()
	alert.CreatedAt = f.now
	alert.MeetingStatus = models.MeetingNotScheduled
	f.alerts[alert.ID] = alert
	return alert.ID, nil
}

func (f *fakeStore) GetAlertByID(_ context.Context, id int64) (*models.StaffAlert, error) {
	alert, ok := f.alerts[id]
	if !ok {
		return nil, apperrors.ErrAlertNotFound
	}
	if student, ok := f.students[alert.StudentID]; ok {
		alert.Student = student
	}
	return alert, nil
}

func (f *fakeStore) GetOpenAlertByStudent(_ context.Context, studentID int64) (*models.StaffAlert, error) {
	for _, id := range f.sortedAlertIDs() {
		alert := f.alerts[id]
		if alert.StudentID == studentID && alert.Open() {
			return alert, nil
		}
	}
	return nil, apperrors.ErrAlertNotFound
}

func (f *fakeStore) ListAlerts(_ context.Context, params repositories.ListAlertsParams) ([]*models.StaffAlert, dto.PaginationInfo, error) {
	alerts := []*models.StaffAlert{}
	for _, id := range f.sortedAlertIDs() {
		alert := f.alerts[id]
		if params.StudentID != nil && alert.StudentID != *params.StudentID {
			continue
		}
		switch params.Status {
		case "open":
			if !alert.Open() {
				continue
			}
		case "resolved":
			if !alert.Resolved {
				continue
			}
		case "dismissed":
			if !alert.Dismissed {
				continue
			}
		}
		alerts = append(alerts, alert)
	}
	return alerts, fakePagination(len(alerts), params.Page, params.Size), nil
}

func (f *fakeStore) sortedAlertIDs() []int64 {
	ids := make([]int64, 0, len(f.alerts))
	for id := range f.alerts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (f *fakeStore) ScheduleMeeting(_ context.Context, id int64, meetingAt time.Time, notes string, at time.Time) error {
	alert, ok := f.alerts[id]
	if !ok || !alert.Open() || alert.MeetingStatus.Terminal() {
		return apperrors.ErrConflict
	}
	alert.MeetingStatus = models.MeetingScheduled
	meeting := meetingAt
	alert.ScheduledMeetingAt = &meeting
	alert.MeetingNotes = notes
	statusAt := at
	alert.MeetingStatusUpdatedAt = &statusAt
	return nil
}

func (f *fakeStore) MarkMeetingMet(_ context.Context, id int64, notes string, at time.Time) error {
	alert, ok := f.alerts[id]
	if !ok || !alert.Open() || alert.MeetingStatus != models.MeetingScheduled {
		return apperrors.ErrConflict
	}
	alert.MeetingStatus = models.MeetingMet
	alert.MeetingNotes = notes
	statusAt := at
	alert.MeetingStatusUpdatedAt = &statusAt
	return nil
}

func (f *fakeStore) ListExpiredMeetings(_ context.Context, asOf time.Time) ([]*models.StaffAlert, error) {
	alerts := []*models.StaffAlert{}
	for _, id := range f.sortedAlertIDs() {
		alert := f.alerts[id]
		if !alert.Open() || alert.MeetingStatus != models.MeetingScheduled {
			continue
		}
		if alert.ScheduledMeetingAt == nil || !alert.ScheduledMeetingAt.Before(asOf) {
			continue
		}
		if student, ok := f.students[alert.StudentID]; ok {
			alert.Student = student
		}
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

func (f *fakeStore) ExpireMeeting(_ context.Context, id int64, at time.Time) (bool, error) {
	alert, ok := f.alerts[id]
	if !ok || !alert.Open() || alert.MeetingStatus != models.MeetingScheduled {
		return false, nil
	}
	if alert.ScheduledMeetingAt == nil || !alert.ScheduledMeetingAt.Before(at) {
		return false, nil
	}
	alert.MeetingStatus = models.MeetingExpired
	statusAt := at
	alert.MeetingStatusUpdatedAt = &statusAt
	return true, nil
}

func (f *fakeStore) ResolveAlert(_ context.Context, id int64, at time.Time) error {
	alert, ok := f.alerts[id]
	if !ok || !alert.Open() {
		return apperrors.ErrConflict
	}
	alert.Resolved = true
	resolvedAt := at
	alert.ResolvedAt = &resolvedAt
	return nil
}

func (f *fakeStore) DismissAlert(_ context.Context, id int64, dismissedBy *int64, at time.Time) error {
	alert, ok := f.alerts[id]
	if !ok || !alert.Open() {
		return apperrors.ErrConflict
	}
	alert.Dismissed = true
	dismissedAt := at
	alert.DismissedAt = &dismissedAt
	alert.DismissedBy = dismissedBy
	return nil
}

func (f *fakeStore) RestoreAlert(_ context.Context, id int64) error {
	alert, ok := f.alerts[id]
	if !ok || !alert.Dismissed || alert.Resolved {
		return apperrors.ErrConflict
	}
	for _, other := range f.alerts {
		if other.ID != id && other.StudentID == alert.StudentID && other.Open() {
			return apperrors.ErrAlertAlreadyOpen
		}
	}
	alert.Dismissed = false
	alert.DismissedAt = nil
	alert.DismissedBy = nil
	return nil
}

// --- ApologyLetterStore ---

func (f *fakeStore) CreateApologyLetter(_ context.Context, letter *models.ApologyLetter) (int64, error) {
	letter.ID = f.id()
	letter.Status = models.ApologyPending
	letter.SubmittedAt = f.now
	f.letters[letter.ID] = letter
	return letter.ID, nil
}

func (f *fakeStore) GetApologyLetterByID(_ context.Context, id int64) (*models.ApologyLetter, error) {
	letter, ok := f.letters[id]
	if !ok {
		return nil, apperrors.ErrApologyLetterNotFound
	}
	if student, ok := f.students[letter.StudentID]; ok {
		letter.Student = student
	}
	return letter, nil
}

func (f *fakeStore) ListApologyLetters(_ context.Context, params repositories.ListApologyLettersParams) ([]*models.ApologyLetter, dto.PaginationInfo, error) {
	letters := []*models.ApologyLetter{}
	for _, letter := range f.letters {
		if params.ViolationID != nil && letter.ViolationID != *params.ViolationID {
			continue
		}
		if params.StudentID != nil && letter.StudentID != *params.StudentID {
			continue
		}
		if params.Status != "" && string(letter.Status) != params.Status {
			continue
		}
		letters = append(letters, letter)
	}
	sort.Slice(letters, func(i, j int) bool { return letters[i].ID < letters[j].ID })
	return letters, fakePagination(len(letters), params.Page, params.Size), nil
}

func (f *fakeStore) ReviewApologyLetter(_ context.Context, id int64, status models.ApologyStatus, verifiedBy *int64, remarks string, at time.Time) error {
	letter, ok := f.letters[id]
	if !ok || letter.Status.Reviewed() {
		return apperrors.ErrApologyAlreadyReviewed
	}
	letter.Status = status
	letter.VerifiedBy = verifiedBy
	verifiedAt := at
	letter.VerifiedAt = &verifiedAt
	letter.Remarks = remarks
	return nil
}

// --- MessageStore ---

func (f *fakeStore) GetMessageByID(_ context.Context, id int64) (*models.Message, error) {
	message, ok := f.messages[id]
	if !ok {
		return nil, apperrors.ErrMessageNotFound
	}
	return message, nil
}

func (f *fakeStore) ListMessagesByRecipient(_ context.Context, params repositories.ListMessagesParams) ([]*models.Message, dto.PaginationInfo, error) {
	messages := []*models.Message{}
	for _, message := range f.messages {
		if message.RecipientID == params.RecipientID {
			messages = append(messages, message)
		}
	}
	sort.Slice(messages, func(i, j int) bool { return messages[i].ID > messages[j].ID })
	return messages, fakePagination(len(messages), params.Page, params.Size), nil
}

func (f *fakeStore) CountUnread(_ context.Context, recipientID int64) (int64, error) {
	var unread int64
	for _, message := range f.messages {
		if message.RecipientID == recipientID && !message.Read() {
			unread++
		}
	}
	return unread, nil
}

func (f *fakeStore) MarkMessageRead(_ context.Context, id int64, at time.Time) error {
	message, ok := f.messages[id]
	if !ok {
		return apperrors.ErrMessageNotFound
	}
	if message.ReadAt == nil {
		readAt := at
		message.ReadAt = &readAt
	}
	return nil
}

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	sent []sentNotification
}

type sentNotification struct {
	recipient notify.Recipient
	subject   string
	body      string
}

func (n *recordingNotifier) Notify(_ context.Context, recipient notify.Recipient, subject, body string) error {
	n.sent = append(n.sent, sentNotification{recipient: recipient, subject: subject, body: body})
	return nil
}

func (n *recordingNotifier) withSubject(subject string) []sentNotification {
	matches := []sentNotification{}
	for _, notification := range n.sent {
		if notification.subject == subject {
			matches = append(matches, notification)
		}
	}
	return matches
}

// testEnv wires every service over one shared fake store, mirroring the
// production wiring in NewServices. The clock is frozen at store.now.
type testEnv struct {
	store      *fakeStore
	notifier   *recordingNotifier
	dispatcher *events.Dispatcher
	issuer     *AlertIssuer
	policy     policy.Config

	violations ViolationService
	types      ViolationTypeService
	alerts     AlertService
	students   StudentService
	letters    ApologyLetterService
	messages   MessageService
}

func newTestEnv() *testEnv {
	store := newFakeStore()
	notifier := &recordingNotifier{}
	logger := zerolog.Nop()
	policyCfg := policy.Default()
	now := func() time.Time { return store.now }

	dispatcher := events.NewDispatcher(logger)
	issuer := NewAlertIssuer(store, store, store, store, notifier, policyCfg, logger)
	dispatcher.Subscribe(issuer)

	return &testEnv{
		store:      store,
		notifier:   notifier,
		dispatcher: dispatcher,
		issuer:     issuer,
		policy:     policyCfg,
		violations: NewViolationService(store, store, store, store, dispatcher, policyCfg, logger, now),
		types:      NewViolationTypeService(store, logger),
		alerts:     NewAlertService(store, store, notifier, logger, now),
		students:   NewStudentService(store, store, policyCfg, logger, now),
		letters:    NewApologyLetterService(store, store, store, notifier, logger, now),
		messages:   NewMessageService(store, store, logger, now),
	}
}
