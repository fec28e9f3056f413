/*
Package iso7816 implements APDU framing for smart-card communication
according to ISO/IEC 7816-4.

It provides the Command and Response APDU structures with their short and
extended length encodings, typed Class, Instruction and StatusWord values,
and builders for the commands a contactless travel-document session uses:
SELECT FILE, READ BINARY, GET CHALLENGE and EXTERNAL AUTHENTICATE.

Communication with a card is strictly synchronous:
 1. The host sends a Command APDU (header + optional body).
 2. The card returns a Response APDU (optional body + trailer SW1/SW2).

The Transmitter interface abstracts the physical connection; any type with a
Transmit method fits, including *scard.Card from github.com/ebfe/scard.
*/
package iso7816
