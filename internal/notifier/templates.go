package notifier

import (
	"fmt"
	"strings"

	"github.com/riedtal/admission-backend/internal/model"
)

const dateLayout = "02.01.2006"
const dateTimeLayout = "02.01.2006 15:04"

// Welcome confirms receipt of a submitted application.
func Welcome(app *model.Application, program *model.StudyProgram, deadline model.DeadlineRecord) Message {
	body := fmt.Sprintf(
		"Sehr geehrte/r %s,\n\n"+
			"Ihre Bewerbung für den Studiengang %s (%s) ist bei uns eingegangen.\n"+
			"Zielsemester: %s\n\n"+
			"Wir prüfen nun Ihre Unterlagen und melden uns bei Rückfragen.\n\n"+
			"Mit freundlichen Grüßen\nIhr Zulassungsbüro",
		app.FullName(), program.Name, program.Code, deadline.TargetSemester,
	)
	return Message{
		Kind:    KindWelcome,
		To:      app.Email,
		Subject: "Eingangsbestätigung Ihrer Bewerbung",
		Body:    body,
	}
}

// DocumentRequest asks the applicant to supply missing documents.
func DocumentRequest(app *model.Application, doc model.DocumentRecord, attempt int) Message {
	missing := doc.MissingDocuments
	if missing == "" {
		missing = "siehe Hinweise des Zulassungsbüros"
	}
	body := fmt.Sprintf(
		"Sehr geehrte/r %s,\n\n"+
			"bei der Prüfung Ihrer Bewerbungsunterlagen fehlen noch:\n  %s\n\n"+
			"Bitte reichen Sie die Unterlagen nach. Ihre Bewerbung bleibt bis dahin in Bearbeitung (Prüfdurchlauf %d).\n\n"+
			"Mit freundlichen Grüßen\nIhr Zulassungsbüro",
		app.FullName(), strings.ReplaceAll(missing, ",", "\n  "), attempt,
	)
	return Message{
		Kind:    KindDocumentRequest,
		To:      app.Email,
		Subject: "Fehlende Bewerbungsunterlagen",
		Body:    body,
	}
}

// ExamInvitation invites the applicant to the entrance exam.
func ExamInvitation(app *model.Application, program *model.StudyProgram, exam model.ExamRecord) Message {
	body := fmt.Sprintf(
		"Sehr geehrte/r %s,\n\n"+
			"hiermit laden wir Sie zur Aufnahmeprüfung für den Studiengang %s ein.\n\n"+
			"Referenz: %s\n"+
			"Termin: %s Uhr\n"+
			"Ort: %s, %s\n"+
			"Prüfungskommission: %s\n"+
			"Dauer: %d Minuten, Bestehensgrenze %d von %d Punkten\n\n"+
			"Bitte bestätigen Sie Ihre Teilnahme bis zum %s.\n"+
			"Check-in-Code: %s\n\n"+
			"Mit freundlichen Grüßen\nIhr Zulassungsbüro",
		app.FullName(), program.Name,
		exam.InvitationReference,
		exam.Date.Format(dateTimeLayout),
		exam.Location, exam.Room,
		exam.Committee,
		exam.DurationMinutes, exam.PassingScore, exam.MaxScore,
		exam.ConfirmationDeadline.Format(dateLayout),
		exam.CheckInToken,
	)
	return Message{
		Kind:    KindExamInvitation,
		To:      app.Email,
		Subject: fmt.Sprintf("Einladung zur Aufnahmeprüfung (%s)", exam.InvitationReference),
		Body:    body,
	}
}

// AdmissionLetter announces admission and the tuition payment terms.
func AdmissionLetter(app *model.Application, program *model.StudyProgram, adm model.AdmissionRecord) Message {
	body := fmt.Sprintf(
		"Sehr geehrte/r %s,\n\n"+
			"wir freuen uns, Ihnen die Zulassung zum Studiengang %s (%s) mitteilen zu können.\n\n"+
			"Zulassungsreferenz: %s\n"+
			"Semesterbeitrag: EUR %s\n"+
			"Zahlungsfrist: %s\n\n"+
			"Ihr Studienplatz wird mit Zahlungseingang verbindlich. Geht der Beitrag nicht fristgerecht ein, verfällt die Zulassung.\n\n"+
			"Mit freundlichen Grüßen\nIhr Zulassungsbüro",
		app.FullName(), program.Name, program.Code,
		adm.Reference, adm.FeeAmountEUR,
		adm.PaymentDeadline.Format(dateLayout),
	)
	return Message{
		Kind:    KindAdmissionLetter,
		To:      app.Email,
		Subject: fmt.Sprintf("Zulassungsbescheid %s", adm.Reference),
		Body:    body,
	}
}

// PaymentReminder nudges the applicant about the outstanding fee. The urgent
// variant is sent when the deadline is less than a week away.
func PaymentReminder(app *model.Application, adm model.AdmissionRecord, urgent bool) Message {
	subject := "Erinnerung: Semesterbeitrag noch offen"
	tone := "Bitte überweisen Sie den Betrag zeitnah."
	if urgent {
		subject = "Letzte Mahnung: Semesterbeitrag noch offen"
		tone = "Bitte überweisen Sie den Betrag umgehend, andernfalls verfällt Ihre Zulassung."
	}
	body := fmt.Sprintf(
		"Sehr geehrte/r %s,\n\n"+
			"für Ihre Zulassung %s ist der Semesterbeitrag von EUR %s noch nicht eingegangen.\n"+
			"Zahlungsfrist: %s\n\n%s\n\n"+
			"Mit freundlichen Grüßen\nIhr Zulassungsbüro",
		app.FullName(), adm.Reference, adm.FeeAmountEUR,
		adm.PaymentDeadline.Format(dateLayout), tone,
	)
	return Message{
		Kind:    KindPaymentReminder,
		To:      app.Email,
		Subject: subject,
		Body:    body,
	}
}

// EnrollmentConfirmation welcomes the enrolled student with their number.
func EnrollmentConfirmation(app *model.Application, program *model.StudyProgram, studentNumber string) Message {
	body := fmt.Sprintf(
		"Sehr geehrte/r %s,\n\n"+
			"herzlich willkommen! Ihre Einschreibung in den Studiengang %s ist abgeschlossen.\n\n"+
			"Ihre Matrikelnummer: %s\n\n"+
			"Mit freundlichen Grüßen\nIhr Zulassungsbüro",
		app.FullName(), program.Name, studentNumber,
	)
	return Message{
		Kind:    KindEnrollmentConfirmation,
		To:      app.Email,
		Subject: "Bestätigung Ihrer Einschreibung",
		Body:    body,
	}
}

// rejectionMessages maps rejection reasons to the letter text.
var rejectionMessages = map[model.RejectionReason]string{
	model.RejectionDeadlineExceeded:   "Ihre Bewerbung ist nach Ablauf der Bewerbungsfrist eingegangen.",
	model.RejectionInsufficientRank:   "Ihre Bewerbung konnte im Auswahlverfahren (Numerus Clausus) leider nicht berücksichtigt werden.",
	model.RejectionExamFailed:         "Sie haben die erforderliche Punktzahl in der Aufnahmeprüfung leider nicht erreicht.",
	model.RejectionPaymentNotReceived: "Der Semesterbeitrag ist nicht fristgerecht eingegangen; Ihre Zulassung ist damit verfallen.",
}

// Rejection informs the applicant of a final negative decision.
func Rejection(app *model.Application, rec model.RejectionRecord) Message {
	detail, ok := rejectionMessages[rec.Reason]
	if !ok {
		detail = rec.Message
	}
	body := fmt.Sprintf(
		"Sehr geehrte/r %s,\n\n"+
			"leider können wir Ihrer Bewerbung nicht entsprechen.\n\n%s\n\n"+
			"Gegen diesen Bescheid können Sie innerhalb eines Monats Widerspruch einlegen.\n\n"+
			"Mit freundlichen Grüßen\nIhr Zulassungsbüro",
		app.FullName(), detail,
	)
	return Message{
		Kind:    KindRejection,
		To:      app.Email,
		Subject: "Bescheid zu Ihrer Bewerbung",
		Body:    body,
	}
}
