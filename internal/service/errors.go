package service

import "errors"

var (
	// ErrTenderNotFound indicates the referenced tender does not exist.
	ErrTenderNotFound = errors.New("tender not found")
	// ErrTenderClosed indicates the tender no longer accepts submissions.
	ErrTenderClosed = errors.New("tender not found or closed")
	// ErrSubmissionNotFound indicates the submission does not belong to the tender.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrDocumentNotFound indicates the document does not belong to the tender.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrDuplicateSubmission indicates the bidder already placed a bid on this tender.
	ErrDuplicateSubmission = errors.New("bidder has already submitted an offer for this tender")
	// ErrNoUpdateFields indicates an update payload carried no recognized fields.
	ErrNoUpdateFields = errors.New("no data to update")
	// ErrEmptyComment indicates comment content was empty after sanitization.
	ErrEmptyComment = errors.New("comment content must not be empty")
	// ErrInvalidDeadline indicates the supplied deadline is not a valid date.
	ErrInvalidDeadline = errors.New("deadline is not a valid date")
	// ErrUnsupportedExportFormat indicates the requested export format is unknown.
	ErrUnsupportedExportFormat = errors.New("unsupported export format")
	// ErrNoFilesProvided indicates a document upload carried no files.
	ErrNoFilesProvided = errors.New("no files provided")
	// ErrTooManyFiles indicates a document upload exceeded the batch limit.
	ErrTooManyFiles = errors.New("too many files in one upload")
	// ErrDocumentTooLarge indicates a file exceeded the configured size limit.
	ErrDocumentTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrDocumentTypeNotAllowed indicates the detected MIME type is not permitted.
	ErrDocumentTypeNotAllowed = errors.New("file type not allowed")
)
