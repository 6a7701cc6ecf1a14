package extract

import "github.com/f3rmion/kosh/internal/lex"

// Verdict is the outcome of validating a candidate record.
// Accept and Suspect are independent checks.
type Verdict struct {
	Accept  bool // Word, pronunciation, transcription and part of speech present
	Suspect bool // Only the graphemic transcription is missing
}

// Validate decides whether a candidate is a complete entry and whether it
// looks like an entry that lost its transcription.
func Validate(r lex.Record) Verdict {
	return Verdict{
		Accept:  r.Word != "" && r.Pronunciation != "" && r.Transcription != "" && r.PartOfSpeech != "",
		Suspect: missingTranscription(r),
	}
}

func missingTranscription(r lex.Record) bool {
	empty := r.Empty()
	if empty < 1 || empty >= 4 {
		return false
	}
	return r.Word != "" &&
		r.Pronunciation != "" &&
		r.Transcription == "" &&
		r.PartOfSpeech != "" &&
		r.Gloss != ""
}
