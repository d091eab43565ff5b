// Package notify delivers the text of a sync run log once the run is over.
//
// Two sinks exist: SMTPNotifier mails the log (plain text plus an HTML
// alternative) and BucketNotifier archives it in object storage. FromConfig
// assembles whichever sinks are configured into a Multi, which attempts every
// sink and joins their errors.
package notify
