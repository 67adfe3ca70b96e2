package shellctx

func (e *Extractor) envHints() EnvHints {
	var h EnvHints
	if v, ok := e.lookupEnv("VIRTUAL_ENV"); ok && v != "" {
		h.PythonVenv = true
	}
	if v, ok := e.lookupEnv("CONDA_DEFAULT_ENV"); ok && v != "" {
		h.CondaEnv = v
	}
	if v, ok := e.lookupEnv("DOCKER_HOST"); ok && v != "" {
		h.DockerEnabled = true
	}
	return h
}
