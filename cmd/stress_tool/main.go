package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sort"
	"sync"
	"time"
)

// 投票接口压测工具
// 用法:
//
//	go run ./cmd/stress_tool -base http://localhost:8080 -token <jwt> \
//	    -target-type topic -target-id <uuid> -n 1000 -c 20
//
// 同方向重复投票会在服务端来回切换创建/取消，正好覆盖状态机的完整路径。
func main() {
	base := flag.String("base", "http://localhost:8080", "服务地址")
	token := flag.String("token", "", "Bearer token")
	targetType := flag.String("target-type", "topic", "topic / comment")
	targetID := flag.String("target-id", "", "目标ID")
	total := flag.Int("n", 1000, "总请求数")
	concurrency := flag.Int("c", 20, "并发数")
	flag.Parse()

	if *token == "" || *targetID == "" {
		log.Fatal("both -token and -target-id are required")
	}

	client := &http.Client{Timeout: time.Second * 10}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		latencies []time.Duration
		failures  int
	)

	jobs := make(chan int)
	start := time.Now()

	for w := 0; w < *concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				// 随机方向，覆盖创建/换向/取消三种动作
				voteType := 1
				if rand.Intn(2) == 0 {
					voteType = -1
				}

				body, _ := json.Marshal(map[string]interface{}{
					"targetType": *targetType,
					"targetId":   *targetID,
					"voteType":   voteType,
				})

				req, err := http.NewRequest(http.MethodPost, *base+"/vote", bytes.NewReader(body))
				if err != nil {
					continue
				}
				req.Header.Set("Content-Type", "application/json")
				req.Header.Set("Authorization", "Bearer "+*token)

				reqStart := time.Now()
				resp, err := client.Do(req)
				elapsed := time.Since(reqStart)

				mu.Lock()
				if err != nil || resp.StatusCode >= 500 {
					failures++
				} else {
					latencies = append(latencies, elapsed)
				}
				mu.Unlock()

				if resp != nil {
					resp.Body.Close()
				}
			}
		}()
	}

	for i := 0; i < *total; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	elapsed := time.Since(start)
	report(latencies, failures, *total, elapsed)
}

func report(latencies []time.Duration, failures, total int, elapsed time.Duration) {
	if len(latencies) == 0 {
		fmt.Println("no successful requests")
		return
	}

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	percentile := func(p float64) time.Duration {
		idx := int(float64(len(latencies)-1) * p)
		return latencies[idx]
	}

	fmt.Printf("total=%d success=%d failed=%d\n", total, len(latencies), failures)
	fmt.Printf("duration=%v qps=%.1f\n", elapsed.Round(time.Millisecond),
		float64(len(latencies))/elapsed.Seconds())
	fmt.Printf("avg=%v p50=%v p95=%v p99=%v max=%v\n",
		(sum / time.Duration(len(latencies))).Round(time.Microsecond),
		percentile(0.50).Round(time.Microsecond),
		percentile(0.95).Round(time.Microsecond),
		percentile(0.99).Round(time.Microsecond),
		latencies[len(latencies)-1].Round(time.Microsecond))
}
