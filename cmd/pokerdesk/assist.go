package main

// AssistCmd forwards a payload to the assist endpoint and prints the reply.
type AssistCmd struct {
	File string `arg:"" help:"Path to the JSON payload, or - for stdin"`
}

func (c *AssistCmd) Run(env *environment) error {
	payload, err := readInput(env, c.File)
	if err != nil {
		return err
	}
	reply, err := newClient(env).Assist(env.ctx, payload)
	if err != nil {
		return err
	}
	return printJSON(env.out, reply)
}
