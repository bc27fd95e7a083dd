package diag

func New(sev Severity, code Code, primary Site, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary Site, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func NewWarning(code Code, primary Site, msg string) Diagnostic {
	return New(SevWarning, code, primary, msg)
}

func (d Diagnostic) WithNote(site Site, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Site: site, Msg: msg})
	return d
}

// Error lets a Diagnostic travel as an error value.
func (d Diagnostic) Error() string {
	return d.Code.ID() + " " + d.Primary.String() + ": " + d.Message
}
