// Package wrapper guards invocations of the external garmindb CLI. The
// tool dereferences its stats argument without a nil check, so an
// operation flag with no statistics selection crashes it; Normalize
// injects the catch-all flag in that case.
package wrapper

// statsFlags are the statistics selectors garmindb accepts. -A (capital)
// is --all, -a (lowercase) is --activities.
var statsFlags = map[string]bool{
	"-A": true, "--all": true,
	"-a": true, "--activities": true,
	"-m": true, "--monitoring": true,
	"-r": true, "--rhr": true,
	"-s": true, "--sleep": true,
	"-w": true, "--weight": true,
}

// operationFlags are the garmindb operations that require a statistics
// selection to be present.
var operationFlags = map[string]bool{
	"-d": true, "--download": true,
	"-c": true, "--copy": true,
	"-i": true, "--import": true,
	"--delete_db":  true,
	"--rebuild_db": true,
}

// Normalize returns args with "--all" appended when an operation flag is
// present without any statistics flag, and unchanged otherwise. Pure
// function; the input slice is never mutated.
func Normalize(args []string) []string {
	hasStats := false
	hasOperation := false
	for _, arg := range args {
		if statsFlags[arg] {
			hasStats = true
		}
		if operationFlags[arg] {
			hasOperation = true
		}
	}
	if !hasOperation || hasStats {
		return args
	}
	out := make([]string, 0, len(args)+1)
	out = append(out, args...)
	return append(out, "--all")
}
