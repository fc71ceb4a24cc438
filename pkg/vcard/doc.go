// Package vcard converts between contact-card text and a contact sequence.
//
// The card grammar is line oriented:
//
//	BEGIN:VCARD
//	VERSION:3.0
//	N:Doe;John;;;
//	FN:John Doe
//	TEL;TYPE=WORK:555-1111
//	END:VCARD
//
// # Parsing
//
// Parse never fails. Property keys are classified by prefix, checked in
// this order:
//
//	Prefix   Contact field
//	------   -------------
//	N        family (segment 0), given (segment 1)
//	TEL      tel_work if the key mentions WORK, tel_home if HOME,
//	         otherwise tel (first unclassified number wins)
//	FN       full_name
//	other    pass-through, keyed by the raw key
//
// Prefix matching is literal: NOTE and NICKNAME are read as names.
//
// # Writing
//
// Write emits BEGIN, VERSION:3.0, the name, full name, work and home
// telephones when present, and END. The unclassified tel field and
// pass-through properties are not written, so they do not survive a
// Write/Parse round trip.
//
// # Thread Safety
//
// All functions in this package are pure and can be called concurrently.
package vcard
