package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/riedtal/admission-backend/internal/model"
)

// Fixed entrance exam parameters.
const (
	ExamDurationMinutes = 120
	ExamMaxScore        = 100
	ExamPassingScore    = 60

	examLeadTime             = 14 * 24 * time.Hour
	examStartHour            = 10
	confirmationDeadlineDays = 3
)

// examLocations maps program codes to exam venues. Unknown codes fall back
// to the central examination centre.
var examLocations = map[string]string{
	"MED": "Medizinische Fakultät, Hauptgebäude",
	"INF": "Informatik-Zentrum, Gebäude A",
	"BWL": "Wirtschaftswissenschaften, Hörsaalzentrum",
	"MB":  "Maschinenbau-Fakultät, Technikum",
}

// examCommittees maps program codes to their standing exam committees.
var examCommittees = map[string]string{
	"MED": "Prof. Dr. Schmidt, Dr. Weber, Dr. Müller",
	"INF": "Prof. Dr. Hansen, Dr. Klein, Dr. Fischer",
	"BWL": "Prof. Dr. Wagner, Dr. Becker, Dr. Schulz",
	"MB":  "Prof. Dr. Hoffmann, Dr. Richter, Dr. König",
}

const (
	defaultExamLocation  = "Hauptgebäude, Prüfungszentrum"
	defaultExamCommittee = "Prof. Dr. Standardprüfer, Dr. Allgemein, Dr. Fachbereich"
)

// ExamService schedules entrance exams and builds invitations.
type ExamService struct{}

// NewExamService creates a new ExamService.
func NewExamService() *ExamService {
	return &ExamService{}
}

// Schedule books an entrance exam two weeks out at 10:00, rolled forward to
// the next weekday, and resolves venue, room and committee for the program.
func (s *ExamService) Schedule(now time.Time, applicationID int64, programCode string) model.ExamRecord {
	examDate := now.Add(examLeadTime)
	examDate = time.Date(examDate.Year(), examDate.Month(), examDate.Day(), examStartHour, 0, 0, 0, examDate.Location())
	for examDate.Weekday() == time.Saturday || examDate.Weekday() == time.Sunday {
		examDate = examDate.AddDate(0, 0, 1)
	}

	code := strings.ToUpper(programCode)
	location, ok := examLocations[code]
	if !ok {
		location = defaultExamLocation
	}
	committee, ok := examCommittees[code]
	if !ok {
		committee = defaultExamCommittee
	}

	return model.ExamRecord{
		Date:            examDate,
		Location:        location,
		Room:            examRoom(applicationID),
		Committee:       committee,
		DurationMinutes: ExamDurationMinutes,
		MaxScore:        ExamMaxScore,
		PassingScore:    ExamPassingScore,
	}
}

// Invite fills in the invitation reference, check-in token and confirmation
// deadline of a scheduled exam.
func (s *ExamService) Invite(rec *model.ExamRecord, applicationID int64) {
	rec.InvitationReference = fmt.Sprintf("EXAM-%s-%06d", rec.Date.Format("02012006"), applicationID)
	rec.CheckInToken = uuid.New().String()
	rec.ConfirmationDeadline = rec.Date.AddDate(0, 0, -confirmationDeadlineDays)
}

// examRoom spreads applicants across the ten exam rooms.
func examRoom(applicationID int64) string {
	return fmt.Sprintf("Raum P-%03d", applicationID%10+1)
}
