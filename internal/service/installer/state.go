package installer

// InstallState accumulates the env vars collected across wizard steps.
// Keys with no matching config field are intermediate and removed during
// finalization.
type InstallState struct {
	EnvVars map[string]string
}

func NewInstallState() *InstallState {
	return &InstallState{
		EnvVars: make(map[string]string),
	}
}
