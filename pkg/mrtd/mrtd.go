/*
Package mrtd reads LDS data groups off a contactless machine-readable travel
document (passport, identity card) over ISO/IEC 7816-4 APDUs.

A Session owns the connection to one tag. Reading a data group selects its
elementary file, probes the first four bytes to learn the encoded length from
the ASN.1 header, then retrieves the rest of the file through a sequence of
bounded READ BINARY commands:

	session := mrtd.NewSession(card)
	raw, err := session.ReadDataGroup(mrtd.DG1)

Documents protected by Basic Access Control refuse reads until an
authentication handshake has established session keys; the bac subpackage
performs that handshake and attaches the secure-messaging envelope through
which every subsequent command and response passes:

	kenc, kmac := bac.DeriveDocumentKeys(mrzInfo)
	if err := bac.Authenticate(session, kenc, kmac); err != nil { ... }
	raw, err := session.ReadDataGroup(mrtd.DG1)

A Session supports one operation in flight at a time. Distinct sessions are
fully independent and may be used concurrently.
*/
package mrtd
