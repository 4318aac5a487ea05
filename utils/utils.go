package utils

import "log"

//panics with err if not nil. For tests and experiments, not library code
func ThrowErr(err error) {
	if err != nil {
		log.Println(err)
		panic(err)
	}
}
