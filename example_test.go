package httpc

import (
	"context"
	"errors"
	"fmt"
)

func ExampleClient() {
	cl := &Client{}
	ex, err := cl.Do(context.Background(), Target{Host: "www.example.com", Service: "https", Secure: true},
		[]byte("GET / HTTP/1.1\r\nHost: www.example.com\r\nConnection: close\r\n\r\n"))
	if errors.Is(err, RejectedStatus) {
		fmt.Println("not a 200:", err)
		return
	}
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(ex.Headers)
	fmt.Println(ex.ReadToString())
}

func ExampleClient_ReadJSON() {
	cl := &Client{}
	var user struct {
		Name string `json:"name"`
	}
	err := cl.ReadJSON(context.Background(), Target{Host: "api.github.com", Service: "https", Secure: true},
		[]byte("GET /users/octocat HTTP/1.1\r\nHost: api.github.com\r\n"+
			"Accept: application/vnd.github.v3+json\r\nUser-Agent: httpc\r\nConnection: close\r\n\r\n"), &user)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("User name:", user.Name)
}
