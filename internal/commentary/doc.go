// Package commentary splits AI-generated article commentary into the three
// narrated sections: Key Points, Impact Analysis and Future Outlook.
//
// Commentary normally carries the section headers inline. When any header is
// missing the text is split on blank-line paragraph breaks instead, and the
// paragraphs are assigned to the same canonical titles so downstream timing
// code always sees exactly three sections.
package commentary
