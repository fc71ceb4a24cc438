// Package types defines the contact data model, the ordered contact
// sequence, the Store interface, and the standard errors for cardfile.
//
// A Contact carries a fixed set of optional, typed fields (family, given,
// full_name, tel_work, tel_home, tel) plus a pass-through map for card
// properties that were not recognized. A Sequence is the ordered, dense
// list of contacts that parsers produce and writers consume.
package types
