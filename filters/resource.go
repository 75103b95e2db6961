package filters

// Scope codes classify how coarse a resource is within the snapshot hierarchy.
const (
	ScopeSet    = "PRJ" // projects and views
	ScopeSpace  = "DIR" // directories and packages
	ScopeEntity = "FIL" // files, classes, unit tests
)

// Qualifier codes identify the concrete type of a resource.
const (
	QualifierView      = "VW"
	QualifierSubview   = "SVW"
	QualifierProject   = "TRK"
	QualifierModule    = "BRC"
	QualifierDirectory = "DIR"
	QualifierPackage   = "PAC"
	QualifierFile      = "FIL"
	QualifierClass     = "CLA"
	QualifierUnitTest  = "UTS"
	QualifierLibrary   = "LIB"
)

// AllQualifiers returns every known qualifier code.
// A filter restricted to this set matches resources of any type,
// in contrast to an unrestricted filter which matches nothing.
func AllQualifiers() []string {
	return []string{
		QualifierView,
		QualifierSubview,
		QualifierProject,
		QualifierModule,
		QualifierDirectory,
		QualifierPackage,
		QualifierFile,
		QualifierClass,
		QualifierUnitTest,
		QualifierLibrary,
	}
}
