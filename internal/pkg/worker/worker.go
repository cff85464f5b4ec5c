package worker

import (
	"log"
	"time"
)

// 重算任务类型
const (
	TaskRecomputeTally      = "tally"      // 重算目标票数
	TaskRecomputeReputation = "reputation" // 重算用户声望
)

// RecomputeTask 聚合重算任务
// 投票主流程中下游更新失败时入队，由 worker 异步修复；
// 重算是纯函数式的全量重建，重复执行是安全的。
type RecomputeTask struct {
	Kind       string
	TargetType string // tally 任务使用
	TargetID   string // tally 任务使用
	UserID     string // reputation 任务使用
	Retry      int    // 重试次数
}

// Recomputer 重算执行器，由 reputation 服务实现
type Recomputer interface {
	RecomputeTally(targetType, targetID string) error
	RecomputeReputation(userID string) error
}

type WorkerPool struct {
	TaskQueue  chan RecomputeTask
	RetryQueue chan RecomputeTask // 重试队列
	Recomputer Recomputer
	WorkerNum  int
	MaxRetry   int // 最大重试次数
}

func NewWorkerPool(recomputer Recomputer, workerNum int, bufferSize int) *WorkerPool {
	return &WorkerPool{
		TaskQueue:  make(chan RecomputeTask, bufferSize),
		RetryQueue: make(chan RecomputeTask, bufferSize/2),
		Recomputer: recomputer,
		WorkerNum:  workerNum,
		MaxRetry:   3, // 最多重试3次
	}
}

func (p *WorkerPool) Start() {
	for i := 0; i < p.WorkerNum; i++ {
		go p.worker(i)
	}
	// 启动重试处理协程
	go p.retryWorker()
	log.Printf("Recompute worker pool started with %d workers", p.WorkerNum)
}

func (p *WorkerPool) worker(id int) {
	for task := range p.TaskQueue {
		if err := p.processTask(task); err != nil {
			log.Printf("[Worker %d] Failed to process %s task: %v", id, task.Kind, err)

			// 如果未达到最大重试次数，加入重试队列
			if task.Retry < p.MaxRetry {
				task.Retry++
				select {
				case p.RetryQueue <- task:
					log.Printf("[Worker %d] Task added to retry queue (attempt %d/%d)",
						id, task.Retry, p.MaxRetry)
				default:
					log.Printf("[Worker %d] Retry queue full, task dropped: %+v", id, task)
					p.logFailedTask(task, err)
				}
			} else {
				log.Printf("[Worker %d] Task exceeded max retries, dropped: %+v", id, task)
				p.logFailedTask(task, err)
			}
		}
	}
}

func (p *WorkerPool) retryWorker() {
	for task := range p.RetryQueue {
		// 延迟重试，避免立即重试
		time.Sleep(time.Duration(task.Retry) * time.Second)

		// 重新加入主队列
		select {
		case p.TaskQueue <- task:
			log.Printf("[RetryWorker] Task re-queued (attempt %d/%d)", task.Retry, p.MaxRetry)
		default:
			log.Printf("[RetryWorker] Main queue full, task dropped: %+v", task)
			p.logFailedTask(task, nil)
		}
	}
}

func (p *WorkerPool) processTask(task RecomputeTask) error {
	switch task.Kind {
	case TaskRecomputeTally:
		return p.Recomputer.RecomputeTally(task.TargetType, task.TargetID)
	case TaskRecomputeReputation:
		return p.Recomputer.RecomputeReputation(task.UserID)
	default:
		log.Printf("Unknown recompute task kind: %s", task.Kind)
		return nil
	}
}

func (p *WorkerPool) logFailedTask(task RecomputeTask, err error) {
	// 最终失败只记录日志：重算是自愈的，下一次对同一目标的投票会修复聚合值
	log.Printf("[DeadLetter] Recompute task failed permanently: %+v, Error=%v", task, err)
}

func (p *WorkerPool) AddTask(task RecomputeTask) {
	select {
	case p.TaskQueue <- task:
		// 任务入队成功
	default:
		log.Printf("Recompute queue full, dropping task: %+v", task)
		p.logFailedTask(task, nil)
	}
}
