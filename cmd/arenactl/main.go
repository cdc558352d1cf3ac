// Command arenactl replays allocation traces and stress-tests the heapkit
// arena allocator.
package main

func main() {
	execute()
}
